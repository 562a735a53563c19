package deck

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Presentation{}, &Slide{}, &Job{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := openTestDB(t)
	return NewService(NewRepo(db)), db
}

func sampleSlides() []SlideInput {
	return []SlideInput{
		{Position: 1, ExtractedText: "Welcome"},
		{Position: 2, ExtractedText: "Agenda", ImageRef: "data:image/jpeg;base64,xx"},
		{Position: 3, ExtractedText: "Thanks"},
	}
}

func TestCreateFromUpload_DeduplicatesIdenticalContent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id1, created, err := svc.CreateFromUpload(ctx, 1, "deck.pdf", sampleSlides())
	if err != nil {
		t.Fatalf("first upload: %v", err)
	}
	if !created {
		t.Fatal("first upload should create")
	}

	// same content, different file name: still a duplicate
	id2, created, err := svc.CreateFromUpload(ctx, 1, "deck-final-v2.pdf", sampleSlides())
	if err != nil {
		t.Fatalf("second upload: %v", err)
	}
	if created {
		t.Fatal("identical content should not create a second presentation")
	}
	if id2 != id1 {
		t.Fatalf("expected existing id %s, got %s", id1, id2)
	}
}

func TestCreateFromUpload_SameContentDifferentUsersAreIndependent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id1, _, err := svc.CreateFromUpload(ctx, 1, "deck.pdf", sampleSlides())
	if err != nil {
		t.Fatalf("user 1 upload: %v", err)
	}
	id2, created, err := svc.CreateFromUpload(ctx, 2, "deck.pdf", sampleSlides())
	if err != nil {
		t.Fatalf("user 2 upload: %v", err)
	}
	if !created || id2 == id1 {
		t.Fatalf("dedup must be per user: created=%v id1=%s id2=%s", created, id1, id2)
	}
}

func TestCreateFromUpload_HashIgnoresSurroundingWhitespace(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id1, _, err := svc.CreateFromUpload(ctx, 1, "a.pdf", []SlideInput{{Position: 1, ExtractedText: "Hello"}})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	id2, created, err := svc.CreateFromUpload(ctx, 1, "b.pdf", []SlideInput{{Position: 1, ExtractedText: "  Hello \n"}})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if created || id2 != id1 {
		t.Fatalf("whitespace-only difference should dedup: created=%v", created)
	}
}

func TestCreateFromUpload_OrderInsensitiveInput(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id1, _, err := svc.CreateFromUpload(ctx, 1, "a.pdf", sampleSlides())
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	shuffled := []SlideInput{
		{Position: 3, ExtractedText: "Thanks"},
		{Position: 1, ExtractedText: "Welcome"},
		{Position: 2, ExtractedText: "Agenda", ImageRef: "data:image/jpeg;base64,xx"},
	}
	id2, created, err := svc.CreateFromUpload(ctx, 1, "a.pdf", shuffled)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if created || id2 != id1 {
		t.Fatalf("same slides in a different wire order should dedup: created=%v", created)
	}
}

func TestCreateFromUpload_RejectsEmptyDeck(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.CreateFromUpload(context.Background(), 1, "empty.pdf", nil)
	if !errors.Is(err, ErrNoSlides) {
		t.Fatalf("expected ErrNoSlides, got %v", err)
	}
}

func TestGetOwned_SlidesComeBackOrdered(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, _, err := svc.CreateFromUpload(ctx, 1, "deck.pdf", []SlideInput{
		{Position: 2, ExtractedText: "two"},
		{Position: 1, ExtractedText: "one"},
		{Position: 3, ExtractedText: "three"},
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	p, err := svc.GetOwned(ctx, 1, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	for i, s := range p.Slides {
		if s.Position != i+1 {
			t.Fatalf("slides out of order: %v", p.Slides)
		}
	}
}

func TestGetOwned_ForeignPresentationReadsAsNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, _, err := svc.CreateFromUpload(ctx, 1, "deck.pdf", sampleSlides())
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if _, err := svc.GetOwned(ctx, 2, id); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not-found for foreign owner, got %v", err)
	}
}

func TestDelete_OwnerScopedAndRemovesSlides(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	id, _, err := svc.CreateFromUpload(ctx, 1, "deck.pdf", sampleSlides())
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if err := svc.Delete(ctx, 2, id); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("foreign delete should read as not-found, got %v", err)
	}

	if err := svc.Delete(ctx, 1, id); err != nil {
		t.Fatalf("owner delete: %v", err)
	}

	var n int64
	if err := db.Model(&Slide{}).Where("presentation_id = ?", id).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected slides to be removed, %d remain", n)
	}

	if err := svc.Delete(ctx, 1, id); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("second delete should be not-found, got %v", err)
	}
}

func TestEditScript_TargetsTheDisplayedSlot(t *testing.T) {
	cases := []struct {
		name     string
		populate map[string]any
		check    func(s Slide) (got string, untouched []string)
	}{
		{
			name:     "pro wins when populated",
			populate: map[string]any{"script_pro": "old pro", "script_simple": "old simple"},
			check: func(s Slide) (string, []string) {
				return s.ScriptPro, []string{s.ScriptSimple, s.ScriptMedium}
			},
		},
		{
			name:     "simple next",
			populate: map[string]any{"script_simple": "old simple", "script_medium": "old medium"},
			check: func(s Slide) (string, []string) {
				return s.ScriptSimple, []string{s.ScriptMedium, s.ScriptPro}
			},
		},
		{
			name:     "medium is the default",
			populate: nil,
			check: func(s Slide) (string, []string) {
				return s.ScriptMedium, []string{s.ScriptSimple, s.ScriptPro}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, db := newTestService(t)
			ctx := context.Background()

			id, _, err := svc.CreateFromUpload(ctx, 1, "deck.pdf", sampleSlides())
			if err != nil {
				t.Fatalf("upload: %v", err)
			}
			p, err := svc.GetOwned(ctx, 1, id)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			slideID := p.Slides[0].ID

			if tc.populate != nil {
				if err := db.Model(&Slide{}).Where("id = ?", slideID).Updates(tc.populate).Error; err != nil {
					t.Fatalf("populate: %v", err)
				}
			}

			if err := svc.EditScript(ctx, 1, slideID, "edited"); err != nil {
				t.Fatalf("edit: %v", err)
			}

			var s Slide
			if err := db.First(&s, "id = ?", slideID).Error; err != nil {
				t.Fatalf("query: %v", err)
			}
			got, untouched := tc.check(s)
			if got != "edited" {
				t.Fatalf("edited slot: got %q", got)
			}
			for _, v := range untouched {
				if v == "edited" {
					t.Fatalf("edit leaked into another slot: %+v", s)
				}
			}
		})
	}
}

func TestEditScript_ForeignSlideReadsAsNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, _, err := svc.CreateFromUpload(ctx, 1, "deck.pdf", sampleSlides())
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	p, err := svc.GetOwned(ctx, 1, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	err = svc.EditScript(ctx, 2, p.Slides[0].ID, "sneaky")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not-found for foreign editor, got %v", err)
	}
}
