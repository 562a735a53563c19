package narration

import (
	"fmt"
	"strings"

	"github.com/oratioapp/oratio-backend/internal/deck"
)

type Style string

const (
	StyleSimple Style = "simple"
	StyleNormal Style = "normal"
	StylePro    Style = "pro"
)

type Length string

const (
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

// Config is the per-run generation configuration. It is never persisted;
// only the narration it produces is.
type Config struct {
	Style  Style
	Length Length
}

func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "simple":
		return StyleSimple, nil
	case "normal", "medium":
		return StyleNormal, nil
	case "pro", "professional":
		return StylePro, nil
	}
	return "", fmt.Errorf("unknown style %q", s)
}

// ParseLength accepts the French tier names (court/moyen/long) as aliases
// for clients that still send them.
func ParseLength(s string) (Length, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "short", "court":
		return LengthShort, nil
	case "medium", "moyen":
		return LengthMedium, nil
	case "long":
		return LengthLong, nil
	}
	return "", fmt.Errorf("unknown length %q", s)
}

// Slot maps a style to the single slide column a run writes.
func (s Style) Slot() deck.ScriptSlot {
	switch s {
	case StyleSimple:
		return deck.SlotSimple
	case StylePro:
		return deck.SlotPro
	default:
		return deck.SlotMedium
	}
}
