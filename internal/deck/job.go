package deck

import "time"

type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// Job is one queued narration-generation run (async variant).
type Job struct {
	ID string `gorm:"primaryKey;size:26"` // ULID length

	UserID         uint64 `gorm:"index;index:uniq_user_idempo,unique;not null"`
	PresentationID string `gorm:"size:26;index;not null"`

	Style  string `gorm:"type:varchar(16);not null"`
	Length string `gorm:"type:varchar(16);not null"`

	// Unique per user; NULL rows never collide so keyless jobs always insert.
	IdempotencyKey *string `gorm:"type:varchar(128);index:uniq_user_idempo,unique" json:"idempotency_key"`

	Status JobStatus `gorm:"type:varchar(16);index;not null"`

	// Filled when failed
	Error *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Job) TableName() string { return "narration_jobs" }
