package narration

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/oratioapp/oratio-backend/internal/deck"
)

// ErrEmptyDeck is returned when a presentation has zero slides; no backend
// call is made in that case.
var ErrEmptyDeck = errors.New("presentation has no slides")

// SlideStore is the slice of the deck repository the orchestrator needs.
type SlideStore interface {
	GetPresentationWithSlides(ctx context.Context, id string) (*deck.Presentation, error)
	UpdateSlideScript(ctx context.Context, slideID string, slot deck.ScriptSlot, text string) error
}

// SlideGenerator produces the narration for a single slide.
type SlideGenerator interface {
	GenerateSlide(ctx context.Context, in SlideInput, cfg Config) string
}

// PartialFailurePolicy makes the continue-past-bad-slides behavior an
// explicit, testable contract instead of a try/catch buried in a loop.
type PartialFailurePolicy struct {
	ContinueOnError bool
}

// Orchestrator drives narration generation across every slide of one
// presentation for one configuration, persisting results as it goes.
type Orchestrator struct {
	store  SlideStore
	gen    SlideGenerator
	policy PartialFailurePolicy
}

func NewOrchestrator(store SlideStore, gen SlideGenerator, policy PartialFailurePolicy) *Orchestrator {
	return &Orchestrator{store: store, gen: gen, policy: policy}
}

// Run processes slides strictly in position order, one at a time. The
// serialization is deliberate: it bounds concurrent load on both the
// database and the LLM backend. A failing slide is logged and skipped when
// the policy says so; the run succeeds once every slide has been attempted.
func (o *Orchestrator) Run(ctx context.Context, presentationID string, cfg Config) error {
	p, err := o.store.GetPresentationWithSlides(ctx, presentationID)
	if err != nil {
		return err
	}

	total := len(p.Slides)
	if total == 0 {
		return ErrEmptyDeck
	}

	slot := cfg.Style.Slot()

	for _, slide := range p.Slides {
		script := o.gen.GenerateSlide(ctx, SlideInput{
			Text:     slide.ExtractedText,
			Image:    slide.ImageRef,
			Position: slide.Position,
			Total:    total,
		}, cfg)

		if err := o.store.UpdateSlideScript(ctx, slide.ID, slot, script); err != nil {
			if !o.policy.ContinueOnError {
				return fmt.Errorf("persist slide %d: %w", slide.Position, err)
			}
			log.Printf("narration: persisting slide %d of %s failed, continuing: %v", slide.Position, presentationID, err)
		}
	}

	return nil
}
