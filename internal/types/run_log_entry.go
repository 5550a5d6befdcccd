package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RunLogEntry is the append-only ground truth: one row per simulated
// action, the oracle downstream analytics are validated against. Rows are
// never mutated.
type RunLogEntry struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TermID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"term_id"`
	WindowID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"window_id"`
	WindowPosition int            `gorm:"column:window_position;not null" json:"window_position"`
	CourseID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"course_id"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	ActionType     string         `gorm:"column:action_type;not null;index" json:"action_type"`
	ActionClass    string         `gorm:"column:action_class;not null" json:"action_class"`
	ObjectID       *uuid.UUID     `gorm:"type:uuid" json:"object_id,omitempty"`
	RelatedUserID  *uuid.UUID     `gorm:"type:uuid" json:"related_user_id,omitempty"`
	TargetAt       time.Time      `gorm:"column:target_at;not null" json:"target_at"`
	Outcome        string         `gorm:"column:outcome" json:"outcome"`
	Detail         datatypes.JSON `gorm:"column:detail;type:jsonb" json:"detail,omitempty"`
	CreatedAt      time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (RunLogEntry) TableName() string { return "run_log_entry" }
