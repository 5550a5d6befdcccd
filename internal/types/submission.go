package types

import (
	"time"

	"github.com/google/uuid"
)

// AssignmentSubmission records a student's submission against an
// assignment activity, and its grading state once an instructor acts.
type AssignmentSubmission struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ActivityID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"activity_id"`
	CourseID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"course_id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	SubmittedAt time.Time  `gorm:"column:submitted_at;not null" json:"submitted_at"`
	GradedAt    *time.Time `gorm:"column:graded_at" json:"graded_at,omitempty"`
	GradedBy    *uuid.UUID `gorm:"type:uuid" json:"graded_by,omitempty"`
	Score       *float64   `gorm:"column:score" json:"score,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;default:now()" json:"created_at"`
}

func (AssignmentSubmission) TableName() string { return "assignment_submission" }
