package deck

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) CreatePresentation(ctx context.Context, p *Presentation) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *Repo) FindByOwnerAndHash(ctx context.Context, userID uint64, hash string) (*Presentation, error) {
	var p Presentation
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND file_hash = ?", userID, hash).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPresentationWithSlides loads a presentation with its slides ordered by
// position ASC. Narration always walks slides in this order.
func (r *Repo) GetPresentationWithSlides(ctx context.Context, id string) (*Presentation, error) {
	var p Presentation
	err := r.db.WithContext(ctx).
		Preload("Slides", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) ListByOwner(ctx context.Context, userID uint64) ([]Presentation, error) {
	var out []Presentation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteOwned removes a presentation only when it belongs to userID and
// returns the number of rows deleted. Slides go with it.
func (r *Repo) DeleteOwned(ctx context.Context, id string, userID uint64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&Presentation{})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		if err := r.db.WithContext(ctx).
			Where("presentation_id = ?", id).
			Delete(&Slide{}).Error; err != nil {
			return res.RowsAffected, err
		}
	}
	return res.RowsAffected, nil
}

func (r *Repo) GetSlide(ctx context.Context, id string) (*Slide, error) {
	var s Slide
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateSlideScript writes text into exactly one narration slot,
// overwriting any previous value there. The other two columns are untouched.
func (r *Repo) UpdateSlideScript(ctx context.Context, slideID string, slot ScriptSlot, text string) error {
	return r.db.WithContext(ctx).Model(&Slide{}).
		Where("id = ?", slideID).
		Update(slot.Column(), text).Error
}

// UpdateAllSlots writes the same text into all three narration slots. Only
// the demo fallback path uses this, so the text shows whatever tier the
// viewer later reads.
func (r *Repo) UpdateAllSlots(ctx context.Context, slideID string, text string) error {
	return r.db.WithContext(ctx).Model(&Slide{}).
		Where("id = ?", slideID).
		Updates(map[string]any{
			SlotSimple.Column(): text,
			SlotMedium.Column(): text,
			SlotPro.Column():    text,
		}).Error
}

// Job CRUD
func (r *Repo) CreateJob(ctx context.Context, job *Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *Repo) GetJobByID(ctx context.Context, id string) (*Job, error) {
	var j Job
	if err := r.db.WithContext(ctx).First(&j, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *Repo) UpdateJobStatusRunning(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&Job{}).
		Where("id = ? AND status = ?", id, JobQueued).
		Update("status", JobRunning).Error
}

func (r *Repo) MarkJobSucceeded(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&Job{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status": JobSucceeded,
			"error":  nil,
		}).Error
}

func (r *Repo) MarkJobFailed(ctx context.Context, id string, errMsg string) error {
	return r.db.WithContext(ctx).Model(&Job{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status": JobFailed,
			"error":  errMsg,
		}).Error
}

func (r *Repo) GetJobByUserAndIdempotencyKey(ctx context.Context, userID uint64, key string) (*Job, error) {
	var job Job
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND idempotency_key = ?", userID, key).
		First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// CreateJobOrGetExisting tries to create a job, but if (user_id, idempotency_key)
// already exists, it returns the existing job instead.
func (r *Repo) CreateJobOrGetExisting(ctx context.Context, job *Job) (*Job, bool, error) {
	if job.IdempotencyKey == nil || *job.IdempotencyKey == "" {
		job.IdempotencyKey = nil
		if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
			return nil, false, err
		}
		return job, true, nil
	}

	err := r.db.WithContext(ctx).Create(job).Error
	if err == nil {
		return job, true, nil
	}

	existing, getErr := r.GetJobByUserAndIdempotencyKey(ctx, job.UserID, *job.IdempotencyKey)
	if getErr == nil {
		return existing, false, nil
	}

	if errors.Is(getErr, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	return nil, false, getErr
}
