package narration

import (
	"context"
	"log"
)

// EmptySlideText substitutes for slides whose extraction produced nothing.
const EmptySlideText = "This slide is mostly visual or contains no text."

// FailurePlaceholder is what a slide gets when every model failed. The
// orchestrator never sees an error from the generator; the product rule is
// that a run always produces something readable.
const FailurePlaceholder = "Sorry, the narration for this slide could not be generated despite several attempts."

// SlideInput carries one slide's content and its place in the deck.
type SlideInput struct {
	Text     string
	Image    string // data URL, empty when no render is available
	Position int    // 1-based
	Total    int
}

// Generator produces the narration script for exactly one slide.
type Generator struct {
	backend Backend
	prompts PromptTable
}

func NewGenerator(backend Backend, prompts PromptTable) *Generator {
	return &Generator{backend: backend, prompts: prompts}
}

// GenerateSlide returns the narration text for one slide. It never returns
// an error: total backend failure collapses into FailurePlaceholder.
func (g *Generator) GenerateSlide(ctx context.Context, in SlideInput, cfg Config) string {
	if in.Text == "" {
		in.Text = EmptySlideText
	}

	text, err := g.backend.Generate(ctx,
		g.prompts.systemPrompt(cfg.Style),
		g.prompts.userPrompt(in, cfg),
		in.Image,
	)
	if err != nil {
		log.Printf("narration: slide %d/%d generation failed: %v", in.Position, in.Total, err)
		return FailurePlaceholder
	}
	return text
}
