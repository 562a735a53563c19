package deck

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/oratioapp/oratio-backend/internal/common"
)

var ErrNoSlides = errors.New("upload contains no slides")

type Service struct {
	repo *Repo
}

func NewService(repo *Repo) *Service {
	return &Service{repo: repo}
}

// CreateFromUpload stores a new presentation with its slides. If this user
// already uploaded identical content, the existing presentation is returned
// instead of creating a duplicate.
func (s *Service) CreateFromUpload(ctx context.Context, userID uint64, fileName string, slides []SlideInput) (id string, created bool, err error) {
	if len(slides) == 0 {
		return "", false, ErrNoSlides
	}

	sort.Slice(slides, func(i, j int) bool { return slides[i].Position < slides[j].Position })

	hash := ContentHash(slides)

	existing, err := s.repo.FindByOwnerAndHash(ctx, userID, hash)
	if err == nil {
		return existing.ID, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, err
	}

	pid, err := common.NewULID()
	if err != nil {
		return "", false, err
	}

	p := &Presentation{
		ID:       pid,
		FileName: fileName,
		FileHash: hash,
		UserID:   userID,
	}
	for _, in := range slides {
		sid, err := common.NewULID()
		if err != nil {
			return "", false, err
		}
		p.Slides = append(p.Slides, Slide{
			ID:            sid,
			Position:      in.Position,
			ExtractedText: in.ExtractedText,
			ImageRef:      in.ImageRef,
		})
	}

	if err := s.repo.CreatePresentation(ctx, p); err != nil {
		return "", false, err
	}
	return p.ID, true, nil
}

// GetOwned fetches a presentation with ordered slides and verifies ownership.
// A foreign presentation reads as not-found so its existence stays hidden.
func (s *Service) GetOwned(ctx context.Context, userID uint64, id string) (*Presentation, error) {
	p, err := s.repo.GetPresentationWithSlides(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (s *Service) ListOwned(ctx context.Context, userID uint64) ([]Presentation, error) {
	return s.repo.ListByOwner(ctx, userID)
}

func (s *Service) Delete(ctx context.Context, userID uint64, id string) error {
	n, err := s.repo.DeleteOwned(ctx, id, userID)
	if err != nil {
		return err
	}
	if n == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// EditScript saves a manual edit from the viewer. The slot updated is the one
// the viewer displays: pro when populated, then simple, then medium.
func (s *Service) EditScript(ctx context.Context, userID uint64, slideID, newScript string) error {
	slide, err := s.repo.GetSlide(ctx, slideID)
	if err != nil {
		return err
	}

	p, err := s.repo.GetPresentationWithSlides(ctx, slide.PresentationID)
	if err != nil {
		return err
	}
	if p.UserID != userID {
		return gorm.ErrRecordNotFound
	}

	slot := SlotMedium
	if SlotPro.Value(slide) != "" {
		slot = SlotPro
	} else if SlotSimple.Value(slide) != "" {
		slot = SlotSimple
	}

	if err := s.repo.UpdateSlideScript(ctx, slideID, slot, newScript); err != nil {
		return fmt.Errorf("update slide %s: %w", slideID, err)
	}
	return nil
}
