package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/oratioapp/oratio-backend/internal/common"
	"github.com/oratioapp/oratio-backend/internal/narration"
)

type generateConfig struct {
	Style  string `json:"style"`
	Length string `json:"length"`
}

type generateReq struct {
	PresentationID string          `json:"presentation_id"`
	Config         *generateConfig `json:"config"`
	// Mode selects the per-slide loop ("" / "sequential") or the
	// single-round-trip combined prompt ("batch").
	Mode string `json:"mode"`
}

// GenerateScript runs one narration generation pass over a whole deck,
// synchronously. The request is gated by auth and the per-user rate limit;
// per-slide failures never fail the run, and a catastrophic failure falls
// back to canned demo content when that safety net is enabled.
func (h *Handler) GenerateScript(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	allowed, err := h.Limiter.Allow(c.Request.Context(), uid)
	if err != nil {
		log.Printf("[GenerateScript] rate limiter uid=%d err=%v", uid, err)
		common.Fail(c, http.StatusInternalServerError, 50001, "internal error")
		return
	}
	if !allowed {
		common.Fail(c, http.StatusTooManyRequests, 42901, "too many requests, try again later")
		return
	}

	// The body is buffered so the fallback path below can read it a second
	// time even after a partially failed run.
	raw, err := c.GetRawData()
	if err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid body")
		return
	}

	var req generateReq
	if err := json.Unmarshal(raw, &req); err != nil || req.PresentationID == "" || req.Config == nil {
		common.Fail(c, http.StatusBadRequest, 10002, "presentation_id and config required")
		return
	}

	cfg, err := parseGenerationConfig(*req.Config)
	if err != nil {
		common.Fail(c, http.StatusBadRequest, 10006, err.Error())
		return
	}

	// Ownership check up front; foreign decks read as not-found.
	if _, err := h.DeckSvc.GetOwned(c.Request.Context(), uid, req.PresentationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusNotFound, 40403, "presentation not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50001, "internal error")
		return
	}

	ctx := c.Request.Context()
	if req.Mode == "batch" {
		err = h.Batch.Run(ctx, req.PresentationID, cfg)
	} else {
		err = h.Orch.Run(ctx, req.PresentationID, cfg)
	}

	if err != nil {
		if errors.Is(err, narration.ErrEmptyDeck) {
			common.Fail(c, http.StatusBadRequest, 10007, "presentation has no slides")
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusNotFound, 40403, "presentation not found")
			return
		}

		log.Printf("[GenerateScript] uid=%d presentation=%s run failed: %v", uid, req.PresentationID, err)

		if h.Fallback != nil {
			// Recover the target from the buffered body (second read) and
			// substitute canned content so the viewer still shows something.
			var again struct {
				PresentationID string `json:"presentation_id"`
			}
			if err := json.Unmarshal(raw, &again); err == nil && again.PresentationID != "" {
				if fbErr := h.Fallback.Apply(ctx, again.PresentationID); fbErr == nil {
					common.OK(c, gin.H{"success": true, "fallback": true})
					return
				} else {
					log.Printf("[GenerateScript] fallback failed for %s: %v", again.PresentationID, fbErr)
				}
			}
		}

		common.Fail(c, http.StatusInternalServerError, 50005, "script generation failed")
		return
	}

	common.OK(c, gin.H{"success": true})
}

func parseGenerationConfig(in generateConfig) (narration.Config, error) {
	style, err := narration.ParseStyle(in.Style)
	if err != nil {
		return narration.Config{}, err
	}
	length, err := narration.ParseLength(in.Length)
	if err != nil {
		return narration.Config{}, err
	}
	return narration.Config{Style: style, Length: length}, nil
}
