package narration

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/oratioapp/oratio-backend/internal/ai"
)

// ErrAllModelsFailed wraps the last per-model error once the whole fallback
// list has been exhausted.
var ErrAllModelsFailed = errors.New("all models failed")

// Backend attempts one narration generation, whatever that takes.
type Backend interface {
	Generate(ctx context.Context, systemPrompt, userPrompt, image string) (string, error)
}

// FallbackBackend walks a fixed, ordered model list and returns the first
// non-empty response. The list order is the whole strategy: cheaper and
// faster models sit in front, and there are no retries, no backoff and no
// parallel racing of models.
type FallbackBackend struct {
	registry *ai.Registry
	provider string
	models   []string
}

func NewFallbackBackend(registry *ai.Registry, provider string, models []string) (*FallbackBackend, error) {
	if len(models) == 0 {
		return nil, errors.New("narration: model list is empty")
	}
	if strings.TrimSpace(provider) == "" {
		return nil, errors.New("narration: provider name is required")
	}
	return &FallbackBackend{
		registry: registry,
		provider: provider,
		models:   append([]string(nil), models...),
	}, nil
}

func (b *FallbackBackend) Generate(ctx context.Context, systemPrompt, userPrompt, image string) (string, error) {
	msgs := []ai.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}
	if image != "" {
		msgs[1].Images = []string{image}
	}

	var lastErr error
	for _, model := range b.models {
		provider, err := b.registry.Get(ctx, b.provider, model)
		if err != nil {
			log.Printf("narration: provider %s model %s unavailable: %v", b.provider, model, err)
			lastErr = err
			continue
		}

		text, err := provider.Chat(ctx, msgs)
		if err != nil {
			log.Printf("narration: model %s failed: %v", model, err)
			lastErr = err
			continue
		}
		if strings.TrimSpace(text) == "" {
			log.Printf("narration: model %s returned empty response", model)
			lastErr = fmt.Errorf("model %s returned empty response", model)
			continue
		}

		log.Printf("narration: model %s succeeded", model)
		return text, nil
	}

	return "", fmt.Errorf("%w: last error: %v", ErrAllModelsFailed, lastErr)
}
