package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	TermStatusPending  = "pending"
	TermStatusActive   = "active"
	TermStatusComplete = "complete"
)

// Term is one simulated academic period. Its window schedule is generated
// in full at creation time and is immutable afterwards.
type Term struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name       string    `gorm:"column:name;not null" json:"name"`
	ProfileKey string    `gorm:"column:profile_key;not null" json:"profile_key"`
	WeekAnchor string    `gorm:"column:week_anchor;not null;index" json:"week_anchor"`
	StartAt    time.Time `gorm:"column:start_at;not null" json:"start_at"`
	EndAt      time.Time `gorm:"column:end_at;not null" json:"end_at"`
	Status     string    `gorm:"column:status;not null;default:pending;index" json:"status"`
	Backfilled bool      `gorm:"column:backfilled;not null;default:false" json:"backfilled"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Term) TableName() string { return "term" }
