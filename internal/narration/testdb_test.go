package narration

import (
	"fmt"
	"strings"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/oratioapp/oratio-backend/internal/deck"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&deck.Presentation{}, &deck.Slide{}, &deck.Job{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// seedDeck creates a presentation with n slides owned by user 1. Slide IDs
// are deterministic so tests can address them.
func seedDeck(t *testing.T, db *gorm.DB, id string, n int) *deck.Presentation {
	t.Helper()
	p := &deck.Presentation{
		ID:       id,
		FileName: "deck.pdf",
		FileHash: "hash-" + id,
		UserID:   1,
	}
	for i := 1; i <= n; i++ {
		p.Slides = append(p.Slides, deck.Slide{
			ID:            fmt.Sprintf("%s-slide-%02d", id, i),
			Position:      i,
			ExtractedText: fmt.Sprintf("content of slide %d", i),
		})
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed deck: %v", err)
	}
	return p
}
