package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oratioapp/oratio-backend/internal/common"
)

// ConvertPresentation proxies a pptx upload to the external conversion
// service and streams the resulting PDF back to the client.
func (h *Handler) ConvertPresentation(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		common.Fail(c, http.StatusBadRequest, 10008, "no file received")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		common.Fail(c, http.StatusBadRequest, 10008, "unreadable file")
		return
	}
	defer f.Close()

	pdf, err := h.Convert.ToPDF(c.Request.Context(), fileHeader.Filename, f)
	if err != nil {
		log.Printf("[ConvertPresentation] uid=%d file=%s err=%v", uid, fileHeader.Filename, err)
		common.Fail(c, http.StatusBadGateway, 50201, "conversion failed")
		return
	}

	c.Data(http.StatusOK, "application/pdf", pdf)
}
