package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/oratioapp/oratio-backend/internal/common"
	"github.com/oratioapp/oratio-backend/internal/deck"
)

type createPresentationReq struct {
	FileName string            `json:"file_name" binding:"required"`
	Slides   []deck.SlideInput `json:"slides" binding:"required"`
}

func (h *Handler) CreatePresentation(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	var req createPresentationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	id, created, err := h.DeckSvc.CreateFromUpload(c.Request.Context(), uid, req.FileName, req.Slides)
	if err != nil {
		if errors.Is(err, deck.ErrNoSlides) {
			common.Fail(c, http.StatusBadRequest, 10005, "upload contains no slides")
			return
		}
		log.Printf("[CreatePresentation] uid=%d err=%v", uid, err)
		common.Fail(c, http.StatusInternalServerError, 50001, "failed to create presentation")
		return
	}

	common.OK(c, gin.H{
		"presentation_id": id,
		"created":         created,
	})
}

func (h *Handler) ListPresentations(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	list, err := h.DeckSvc.ListOwned(c.Request.Context(), uid)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50002, "failed to list presentations")
		return
	}

	common.OK(c, gin.H{"presentations": list})
}

func (h *Handler) GetPresentation(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	id := c.Param("presentation_id")
	p, err := h.DeckSvc.GetOwned(c.Request.Context(), uid, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusNotFound, 40403, "presentation not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50002, "failed to load presentation")
		return
	}

	common.OK(c, gin.H{"presentation": p})
}

func (h *Handler) DeletePresentation(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	id := c.Param("presentation_id")
	if id == "" {
		common.Fail(c, http.StatusBadRequest, 10004, "presentation_id required")
		return
	}

	if err := h.DeckSvc.Delete(c.Request.Context(), uid, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusNotFound, 40403, "presentation not found")
			return
		}
		log.Printf("[DeletePresentation] uid=%d id=%s err=%v", uid, id, err)
		common.Fail(c, http.StatusInternalServerError, 50003, "failed to delete presentation")
		return
	}

	common.OK(c, gin.H{"success": true})
}
