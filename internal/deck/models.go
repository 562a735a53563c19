package deck

import "time"

type Presentation struct {
	ID       string `gorm:"primaryKey;size:26" json:"id"` // ULID length
	FileName string `gorm:"type:varchar(255);not null" json:"file_name"`

	// Dedup key: hash of the uploaded slide content, unique per owner.
	FileHash string `gorm:"type:varchar(32);not null;index:uniq_owner_hash,unique,priority:2" json:"-"`
	UserID   uint64 `gorm:"not null;index;index:uniq_owner_hash,unique,priority:1" json:"-"`

	Slides []Slide `gorm:"constraint:OnDelete:CASCADE" json:"slides,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Presentation) TableName() string { return "presentations" }

type Slide struct {
	ID             string `gorm:"primaryKey;size:26" json:"id"`
	PresentationID string `gorm:"size:26;not null;index:uniq_pres_pos,unique,priority:1" json:"-"`

	// 1-based position within the deck; defines narration order.
	Position int `gorm:"not null;index:uniq_pres_pos,unique,priority:2" json:"position"`

	ExtractedText string `gorm:"type:text" json:"extracted_text"`
	ImageRef      string `gorm:"type:mediumtext" json:"image_ref,omitempty"`

	// One column per narration tier. A generation run writes exactly one of
	// these; the other two keep whatever they held before.
	ScriptSimple string `gorm:"type:text" json:"script_simple"`
	ScriptMedium string `gorm:"type:text" json:"script_medium"`
	ScriptPro    string `gorm:"type:text" json:"script_pro"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Slide) TableName() string { return "slides" }

// ScriptSlot is the closed mapping from a narration tier to its column.
type ScriptSlot string

const (
	SlotSimple ScriptSlot = "script_simple"
	SlotMedium ScriptSlot = "script_medium"
	SlotPro    ScriptSlot = "script_pro"
)

func (s ScriptSlot) Column() string { return string(s) }

// Value reads the slot's content from a slide.
func (s ScriptSlot) Value(sl *Slide) string {
	switch s {
	case SlotSimple:
		return sl.ScriptSimple
	case SlotPro:
		return sl.ScriptPro
	default:
		return sl.ScriptMedium
	}
}
