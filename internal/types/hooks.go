package types

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BeforeCreate hooks assign the primary key client-side when the row was
// built without one, so inserts behave the same on databases without the
// uuid-ossp extension (the sqlite test harness in particular).

func (m *SimUser) BeforeCreate(tx *gorm.DB) error              { return ensureID(&m.ID) }
func (m *LearnerProfile) BeforeCreate(tx *gorm.DB) error       { return ensureID(&m.ID) }
func (m *Term) BeforeCreate(tx *gorm.DB) error                 { return ensureID(&m.ID) }
func (m *TermWindow) BeforeCreate(tx *gorm.DB) error           { return ensureID(&m.ID) }
func (m *Course) BeforeCreate(tx *gorm.DB) error               { return ensureID(&m.ID) }
func (m *CourseActivity) BeforeCreate(tx *gorm.DB) error       { return ensureID(&m.ID) }
func (m *Enrollment) BeforeCreate(tx *gorm.DB) error           { return ensureID(&m.ID) }
func (m *DiscussionThread) BeforeCreate(tx *gorm.DB) error     { return ensureID(&m.ID) }
func (m *ThreadRead) BeforeCreate(tx *gorm.DB) error           { return ensureID(&m.ID) }
func (m *AssignmentSubmission) BeforeCreate(tx *gorm.DB) error { return ensureID(&m.ID) }
func (m *RunLogEntry) BeforeCreate(tx *gorm.DB) error          { return ensureID(&m.ID) }

func ensureID(id *uuid.UUID) error {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
	return nil
}
