package types

import (
	"time"

	"github.com/google/uuid"
)

// LearnerProfile pins one simulated student's behavior. The diligence
// scalar is drawn once at provisioning and never regenerated; regenerating
// it would break reproducibility of the same student across terms.
type LearnerProfile struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User      *SimUser  `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Archetype string    `gorm:"column:archetype;not null" json:"archetype"`
	Diligence float64   `gorm:"column:diligence;not null" json:"diligence"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (LearnerProfile) TableName() string { return "learner_profile" }
