package narration

import (
	"context"

	"github.com/oratioapp/oratio-backend/internal/deck"
)

// FallbackProvider supplies last-resort narration text when a whole
// generation run has failed beyond recovery.
type FallbackProvider interface {
	Text(position int) string
}

// genericFallbackLine covers positions the static table does not know.
const genericFallbackLine = "Let's move on to the next point of the presentation."

// StaticFallback serves hand-authored lines keyed by slide position. The
// default table targets the known demo deck; anything else gets the generic
// line. Swappable so the demo content never leaks into orchestration logic.
type StaticFallback struct {
	Lines map[int]string
}

func (s StaticFallback) Text(position int) string {
	if t, ok := s.Lines[position]; ok {
		return t
	}
	return genericFallbackLine
}

// DemoFallback is the operational safety net used for live demos.
func DemoFallback() StaticFallback {
	return StaticFallback{Lines: map[int]string{
		1: "Hello everyone, and thank you for being here. Today we are going to look at how this product turns any slide deck into a confident spoken presentation.",
		2: "First, the upload. You drop in your deck, and within seconds every slide is read, analyzed, and ready to be narrated.",
		3: "Then comes the script. For each slide, a narration is written in the tone you picked, so the words always sound like you on a good day.",
		4: "And finally, the rehearsal. The built-in teleprompter scrolls your script at your pace, so you can practice until it feels natural.",
		5: "To wrap up: upload, generate, rehearse. Three steps between your slides and a presentation you are proud of. Thank you for your attention.",
	}}
}

// FallbackStore is the slice of the repository the fallback writer needs.
type FallbackStore interface {
	GetPresentationWithSlides(ctx context.Context, id string) (*deck.Presentation, error)
	UpdateAllSlots(ctx context.Context, slideID string, text string) error
}

// FallbackWriter substitutes fallback text for every slide of a
// presentation, writing all three narration slots so the text displays
// whatever tier the viewer reads.
type FallbackWriter struct {
	store    FallbackStore
	provider FallbackProvider
}

func NewFallbackWriter(store FallbackStore, provider FallbackProvider) *FallbackWriter {
	return &FallbackWriter{store: store, provider: provider}
}

func (w *FallbackWriter) Apply(ctx context.Context, presentationID string) error {
	p, err := w.store.GetPresentationWithSlides(ctx, presentationID)
	if err != nil {
		return err
	}
	for _, slide := range p.Slides {
		if err := w.store.UpdateAllSlots(ctx, slide.ID, w.provider.Text(slide.Position)); err != nil {
			return err
		}
	}
	return nil
}
