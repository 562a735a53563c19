package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/oratioapp/oratio-backend/internal/common"
	"github.com/oratioapp/oratio-backend/internal/deck"
)

// GenerateScriptAsync enqueues a narration run instead of executing it in
// the request. The worker picks the job up from the queue; clients poll
// GetJob for the outcome.
func (h *Handler) GenerateScriptAsync(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	if h.Rabbit == nil {
		common.Fail(c, http.StatusServiceUnavailable, 50301, "async generation not available")
		return
	}

	allowed, err := h.Limiter.Allow(c.Request.Context(), uid)
	if err != nil {
		log.Printf("[GenerateScriptAsync] rate limiter uid=%d err=%v", uid, err)
		common.Fail(c, http.StatusInternalServerError, 50001, "internal error")
		return
	}
	if !allowed {
		common.Fail(c, http.StatusTooManyRequests, 42901, "too many requests, try again later")
		return
	}

	var req generateReq
	if err := c.ShouldBindJSON(&req); err != nil || req.PresentationID == "" || req.Config == nil {
		common.Fail(c, http.StatusBadRequest, 10002, "presentation_id and config required")
		return
	}

	cfg, err := parseGenerationConfig(*req.Config)
	if err != nil {
		common.Fail(c, http.StatusBadRequest, 10006, err.Error())
		return
	}

	if _, err := h.DeckSvc.GetOwned(c.Request.Context(), uid, req.PresentationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusNotFound, 40403, "presentation not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50001, "internal error")
		return
	}

	// read idempotency key
	idempoKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
	if len(idempoKey) > 128 {
		common.Fail(c, http.StatusBadRequest, 10003, "idempotency key too long")
		return
	}
	var idempoKeyPtr *string
	if idempoKey != "" {
		idempoKeyPtr = &idempoKey
	}

	jobID, err := common.NewULID()
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50001, "internal error")
		return
	}

	j := &deck.Job{
		ID:             jobID,
		UserID:         uid,
		PresentationID: req.PresentationID,
		Style:          string(cfg.Style),
		Length:         string(cfg.Length),
		IdempotencyKey: idempoKeyPtr,
		Status:         deck.JobQueued,
	}

	job, created, err := h.Repo.CreateJobOrGetExisting(c.Request.Context(), j)
	if err != nil {
		log.Printf("[GenerateScriptAsync] create job uid=%d presentation=%s err=%v", uid, req.PresentationID, err)
		common.Fail(c, http.StatusInternalServerError, 50001, "internal error")
		return
	}

	// Enqueue only when a new job row was created.
	if created {
		if err := h.Rabbit.PublishJob(c.Request.Context(), job.ID); err != nil {
			log.Printf("[GenerateScriptAsync] publish job=%s err=%v", job.ID, err)
			common.Fail(c, http.StatusInternalServerError, 50002, "enqueue failed")
			return
		}
	}

	common.OK(c, gin.H{"job_id": job.ID})
}

func (h *Handler) GetJob(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	jobID := c.Param("job_id")
	if jobID == "" {
		common.Fail(c, http.StatusBadRequest, 10002, "job_id required")
		return
	}

	j, err := h.Repo.GetJobByID(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusNotFound, 40402, "job not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50001, "internal error")
		return
	}
	if j.UserID != uid {
		// hide existence
		common.Fail(c, http.StatusNotFound, 40402, "job not found")
		return
	}

	common.OK(c, gin.H{
		"job": gin.H{
			"id":              j.ID,
			"presentation_id": j.PresentationID,
			"style":           j.Style,
			"length":          j.Length,
			"status":          j.Status,
			"error":           j.Error,
			"created_at":      j.CreatedAt,
			"updated_at":      j.UpdatedAt,
		},
	})
}
