package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/oratioapp/oratio-backend/internal/common"
)

type updateSlideReq struct {
	SlideID   string  `json:"slide_id" binding:"required"`
	NewScript *string `json:"new_script" binding:"required"`
}

// UpdateSlide saves a manual script edit from the viewer.
func (h *Handler) UpdateSlide(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	var req updateSlideReq
	if err := c.ShouldBindJSON(&req); err != nil || req.NewScript == nil {
		common.Fail(c, http.StatusBadRequest, 10001, "slide_id and new_script required")
		return
	}

	if err := h.DeckSvc.EditScript(c.Request.Context(), uid, req.SlideID, *req.NewScript); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusNotFound, 40404, "slide not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50004, "failed to save script")
		return
	}

	common.OK(c, gin.H{"success": true})
}
