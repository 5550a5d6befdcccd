package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	EnrollmentRoleStudent    = "student"
	EnrollmentRoleInstructor = "instructor"
)

// Enrollment ties a user to a course with a role. InstructorProfile names
// the behavior profile for instructor rows and is empty for students.
type Enrollment struct {
	ID                uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CourseID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_pair" json:"course_id"`
	UserID            uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_pair" json:"user_id"`
	Role              string    `gorm:"column:role;not null;index" json:"role"`
	InstructorProfile string    `gorm:"column:instructor_profile" json:"instructor_profile,omitempty"`
	CreatedAt         time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Enrollment) TableName() string { return "enrollment" }
