package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/oratioapp/oratio-backend/internal/ai"
	"github.com/oratioapp/oratio-backend/internal/config"
	"github.com/oratioapp/oratio-backend/internal/convert"
	"github.com/oratioapp/oratio-backend/internal/deck"
	"github.com/oratioapp/oratio-backend/internal/email"
	"github.com/oratioapp/oratio-backend/internal/httpapi/middleware"
	"github.com/oratioapp/oratio-backend/internal/narration"
)

// RateLimiter gates generation runs per user.
type RateLimiter interface {
	Allow(ctx context.Context, userID uint64) (bool, error)
}

// JobPublisher enqueues async narration jobs.
type JobPublisher interface {
	PublishJob(ctx context.Context, jobID string) error
}

type Handler struct {
	DB          *gorm.DB
	Cfg         config.Config
	Limiter     RateLimiter
	Rabbit      JobPublisher
	SMTPSetting email.SMTPConfig

	Repo    *deck.Repo
	DeckSvc *deck.Service
	Orch    *narration.Orchestrator
	Batch   *narration.BatchRunner

	// Fallback is nil unless the demo safety net is enabled by config.
	Fallback *narration.FallbackWriter

	Convert *convert.Client
}

// NewRegistry wires the provider factories the narration backend can route to.
func NewRegistry(cfg config.Config) *ai.Registry {
	reg := ai.NewRegistry()
	reg.Register("openrouter", func(ctx context.Context, model string) (ai.Provider, error) {
		return ai.NewOpenAIProvider(cfg.AIBaseURL, cfg.AIAPIKey, model)
	})
	reg.Register("openai", func(ctx context.Context, model string) (ai.Provider, error) {
		return ai.NewOpenAIProvider(cfg.AIBaseURL, cfg.AIAPIKey, model)
	})
	reg.Register("ollama", func(ctx context.Context, model string) (ai.Provider, error) {
		return ai.NewOllamaProvider(cfg.OllamaBaseURL, model), nil
	})
	return reg
}

func NewHandler(db *gorm.DB, cfg config.Config, limiter RateLimiter, rabbit JobPublisher) (*Handler, error) {
	repo := deck.NewRepo(db)

	backend, err := narration.NewFallbackBackend(NewRegistry(cfg), cfg.AIProvider, cfg.AIModels)
	if err != nil {
		return nil, err
	}

	prompts := narration.DefaultPromptTable()
	gen := narration.NewGenerator(backend, prompts)
	orch := narration.NewOrchestrator(repo, gen, narration.PartialFailurePolicy{ContinueOnError: true})
	batch := narration.NewBatchRunner(repo, backend, prompts, cfg.BatchSeparator)

	var fallback *narration.FallbackWriter
	if cfg.DemoFallbackEnabled {
		fallback = narration.NewFallbackWriter(repo, narration.DemoFallback())
	}

	return &Handler{
		DB:      db,
		Cfg:     cfg,
		Limiter: limiter,
		Rabbit:  rabbit,
		SMTPSetting: email.SMTPConfig{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			From: cfg.SMTPFrom,
		},
		Repo:     repo,
		DeckSvc:  deck.NewService(repo),
		Orch:     orch,
		Batch:    batch,
		Fallback: fallback,
		Convert:  convert.NewClient(cfg.ConvertBaseURL, cfg.ConvertToken),
	}, nil
}

func (h *Handler) Ping(c *gin.Context) {
	c.JSON(200, gin.H{"message": "pong"})
}

func userIDFromContext(c *gin.Context) (uint64, bool) {
	v, ok := c.Get(middleware.UserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint64)
	return id, ok
}
