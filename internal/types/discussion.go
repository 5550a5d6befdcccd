package types

import (
	"time"

	"github.com/google/uuid"
)

// DiscussionThread is one thread in a forum activity. AuthorID is nullable
// on purpose: threads with no attributable author exercise the
// missing-attribution path, where a skipped read is preferred over a
// fabricated social-graph edge.
type DiscussionThread struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ForumID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"forum_id"`
	CourseID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"course_id"`
	AuthorID  *uuid.UUID `gorm:"type:uuid" json:"author_id,omitempty"`
	Subject   string     `gorm:"column:subject;not null" json:"subject"`
	Body      string     `gorm:"column:body;not null" json:"body"`
	CreatedAt time.Time  `gorm:"not null;default:now();index" json:"created_at"`
}

func (DiscussionThread) TableName() string { return "discussion_thread" }

// ThreadRead marks a thread as read by a user. The unique pair makes the
// mark-read side effect idempotent.
type ThreadRead struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ThreadID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_thread_read_pair" json:"thread_id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_thread_read_pair" json:"user_id"`
	ReadAt   time.Time `gorm:"column:read_at;not null;default:now()" json:"read_at"`
}

func (ThreadRead) TableName() string { return "thread_read" }
