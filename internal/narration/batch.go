package narration

import (
	"context"
	"fmt"
	"strings"
)

// batchFillerLine pads trailing slides when the model returns fewer
// segments than the deck has slides.
const batchFillerLine = "Moving on to the next point."

// maxBatchSlideChars bounds how much of each slide's text goes into the
// combined prompt so a large deck still fits one request.
const maxBatchSlideChars = 600

// BatchRunner is the single-round-trip variant of the orchestrator: all
// slides go into one combined prompt and the response is split back onto
// slides by a separator token. It trades per-slide isolation for one API
// call.
type BatchRunner struct {
	store     SlideStore
	backend   Backend
	prompts   PromptTable
	separator string
}

func NewBatchRunner(store SlideStore, backend Backend, prompts PromptTable, separator string) *BatchRunner {
	if separator == "" {
		separator = "@@@SLIDE@@@"
	}
	return &BatchRunner{store: store, backend: backend, prompts: prompts, separator: separator}
}

func (b *BatchRunner) Run(ctx context.Context, presentationID string, cfg Config) error {
	p, err := b.store.GetPresentationWithSlides(ctx, presentationID)
	if err != nil {
		return err
	}

	total := len(p.Slides)
	if total == 0 {
		return ErrEmptyDeck
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "You will write the narration for a complete presentation of %d slides.\n", total)
	fmt.Fprintf(&sb, "Write one script per slide, in order. Separate consecutive scripts with the exact token %s on its own line.\n", b.separator)
	fmt.Fprintf(&sb, "Requested length per slide: %s\n", b.prompts.Lengths[cfg.Length])
	fmt.Fprintf(&sb, "The first slide must open with a greeting; the last must close the presentation and thank the audience; interior slides must start with a transition and never greet.\n\n")
	for _, slide := range p.Slides {
		text := strings.TrimSpace(slide.ExtractedText)
		if text == "" {
			text = EmptySlideText
		}
		if len(text) > maxBatchSlideChars {
			text = text[:maxBatchSlideChars]
		}
		fmt.Fprintf(&sb, "Slide %d: %q\n", slide.Position, text)
		if slide.ImageRef != "" {
			sb.WriteString("(a rendered image exists for this slide; mention its salient visual content)\n")
		}
	}

	resp, err := b.backend.Generate(ctx, b.prompts.systemPrompt(cfg.Style), sb.String(), "")
	if err != nil {
		return err
	}

	segments := strings.Split(resp, b.separator)
	for i := range segments {
		segments[i] = strings.TrimSpace(segments[i])
	}

	slot := cfg.Style.Slot()
	for i, slide := range p.Slides {
		script := batchFillerLine
		if i < len(segments) && segments[i] != "" {
			script = segments[i]
		}
		if err := b.store.UpdateSlideScript(ctx, slide.ID, slot, script); err != nil {
			return fmt.Errorf("persist slide %d: %w", slide.Position, err)
		}
	}

	return nil
}
