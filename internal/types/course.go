package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActivityKindPage       = "page"
	ActivityKindQuiz       = "quiz"
	ActivityKindAssignment = "assignment"
	ActivityKindForum      = "forum"
)

// Course binds a simulated course to its term. AnnouncementsForumID points
// at the reserved announcements forum activity when the course has one.
type Course struct {
	ID                   uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TermID               uuid.UUID  `gorm:"type:uuid;not null;index" json:"term_id"`
	Term                 *Term      `gorm:"constraint:OnDelete:CASCADE;foreignKey:TermID;references:ID" json:"term,omitempty"`
	Code                 string     `gorm:"column:code;not null" json:"code"`
	Title                string     `gorm:"column:title;not null" json:"title"`
	AnnouncementsForumID *uuid.UUID `gorm:"type:uuid" json:"announcements_forum_id,omitempty"`
	CreatedAt            time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt            time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (Course) TableName() string { return "course" }

// CourseActivity is one item on a course section: page, quiz, assignment
// or forum. Ordinal fixes the in-section processing order.
type CourseActivity struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CourseID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"course_id"`
	Course    *Course    `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	Section   int        `gorm:"column:section;not null;index" json:"section"`
	Ordinal   int        `gorm:"column:ordinal;not null" json:"ordinal"`
	Kind      string     `gorm:"column:kind;not null" json:"kind"`
	Title     string     `gorm:"column:title;not null" json:"title"`
	DueAt     *time.Time `gorm:"column:due_at" json:"due_at,omitempty"`
	CreatedAt time.Time  `gorm:"not null;default:now()" json:"created_at"`
}

func (CourseActivity) TableName() string { return "course_activity" }
