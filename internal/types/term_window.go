package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	WindowStatusPending  = "pending"
	WindowStatusComplete = "complete"
)

// TermWindow is one atomic unit of scheduled simulation work within a term.
// Its 0-based position among the term's windows is derived by counting
// siblings with strictly earlier scheduled_at; it is deliberately not a
// column, so insertion order can never desync it.
type TermWindow struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TermID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"term_id"`
	Term        *Term      `gorm:"constraint:OnDelete:CASCADE;foreignKey:TermID;references:ID" json:"term,omitempty"`
	PeriodIndex int        `gorm:"column:period_index;not null" json:"period_index"`
	WindowKey   string     `gorm:"column:window_key;not null" json:"window_key"`
	Label       string     `gorm:"column:label;not null" json:"label"`
	ScheduledAt time.Time  `gorm:"column:scheduled_at;not null;index" json:"scheduled_at"`
	Status      string     `gorm:"column:status;not null;default:pending;index" json:"status"`
	ForceRerun  bool       `gorm:"column:force_rerun;not null;default:false" json:"force_rerun"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (TermWindow) TableName() string { return "term_window" }
