package narration

import (
	"testing"

	"github.com/oratioapp/oratio-backend/internal/deck"
)

func TestParseStyle(t *testing.T) {
	cases := map[string]Style{
		"simple":       StyleSimple,
		"normal":       StyleNormal,
		"medium":       StyleNormal,
		"pro":          StylePro,
		"professional": StylePro,
		"  Pro  ":      StylePro,
	}
	for in, want := range cases {
		got, err := ParseStyle(in)
		if err != nil {
			t.Errorf("ParseStyle(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseStyle(%q) = %s, want %s", in, got, want)
		}
	}

	if _, err := ParseStyle("shakespearean"); err == nil {
		t.Error("expected error for unknown style")
	}
}

func TestParseLength(t *testing.T) {
	cases := map[string]Length{
		"short":  LengthShort,
		"court":  LengthShort,
		"medium": LengthMedium,
		"moyen":  LengthMedium,
		"long":   LengthLong,
		"LONG":   LengthLong,
	}
	for in, want := range cases {
		got, err := ParseLength(in)
		if err != nil {
			t.Errorf("ParseLength(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseLength(%q) = %s, want %s", in, got, want)
		}
	}

	if _, err := ParseLength("epic"); err == nil {
		t.Error("expected error for unknown length")
	}
}

func TestStyleSlot(t *testing.T) {
	cases := map[Style]deck.ScriptSlot{
		StyleSimple: deck.SlotSimple,
		StyleNormal: deck.SlotMedium,
		StylePro:    deck.SlotPro,
	}
	for style, want := range cases {
		if got := style.Slot(); got != want {
			t.Errorf("%s.Slot() = %s, want %s", style, got, want)
		}
	}
}
