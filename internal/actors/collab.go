package actors

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// The actor simulators only ever talk to the host platform through the
// capability contracts in this file. The default GORM-backed binding
// lives in internal/platform/lms; tests substitute fakes.

// ActivityRef describes one activity on a course section, in declared
// order.
type ActivityRef struct {
	ID    uuid.UUID
	Kind  string
	Title string
	DueAt *time.Time
}

// ThreadRef describes one discussion thread. AuthorID is uuid.Nil when
// the author cannot be determined; actors skip such threads rather than
// fabricate a social-graph edge.
type ThreadRef struct {
	ID        uuid.UUID
	AuthorID  uuid.UUID
	CreatedAt time.Time
}

// SubmissionRef describes one submitted-but-ungraded submission.
type SubmissionRef struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

// ActionInput is one ground-truth action to persist. Detail carries
// per-action metadata (thread subject, assigned score, effective roll
// probability) for the downstream oracle; nil when the action type has
// none.
type ActionInput struct {
	TermID         uuid.UUID
	WindowID       uuid.UUID
	WindowPosition int
	CourseID       uuid.UUID
	UserID         uuid.UUID
	ActionType     string
	ObjectID       *uuid.UUID
	RelatedUserID  *uuid.UUID
	TargetAt       time.Time
	Outcome        string
	Detail         map[string]any
}

// ContentDiscovery answers what exists and what is unread.
type ContentDiscovery interface {
	// ListActivities returns the section's activities in declared order.
	ListActivities(ctx context.Context, courseID uuid.UUID, section int) ([]ActivityRef, error)
	// UnreadThreads returns the forum's threads the user has not read,
	// oldest-created first.
	UnreadThreads(ctx context.Context, forumID, userID uuid.UUID) ([]ThreadRef, error)
	// AnnouncementsForum returns the course's reserved announcements
	// forum, or nil when the course has none.
	AnnouncementsForum(ctx context.Context, courseID uuid.UUID) (*uuid.UUID, error)
}

// ActionRecorder persists ground-truth entries and read-state.
type ActionRecorder interface {
	Record(ctx context.Context, in ActionInput) (uuid.UUID, error)
	MarkThreadRead(ctx context.Context, threadID, userID uuid.UUID) error
}

// CourseGateway performs the platform mutations actors need beyond the
// run log itself.
type CourseGateway interface {
	PostThread(ctx context.Context, forumID, courseID, authorID uuid.UUID, subject, body string, at time.Time) (ThreadRef, error)
	SubmitAssignment(ctx context.Context, activityID, courseID, userID uuid.UUID, at time.Time) (uuid.UUID, error)
	UngradedSubmissions(ctx context.Context, activityID uuid.UUID) ([]SubmissionRef, error)
	GradeSubmission(ctx context.Context, submissionID, graderID uuid.UUID, score float64, at time.Time) error
}

// MemberRef is one enrolled user.
type MemberRef struct {
	UserID            uuid.UUID
	InstructorProfile string
}

// EnrollmentDirectory resolves who holds the submit-work capability
// (students) and the manage-activities capability (instructors) in a
// course.
type EnrollmentDirectory interface {
	Students(ctx context.Context, courseID uuid.UUID) ([]MemberRef, error)
	Instructors(ctx context.Context, courseID uuid.UUID) ([]MemberRef, error)
}

// IdentitySwitcher scopes platform calls to a simulated acting user. The
// prior identity is restored on every exit path, including panics; the
// callback is the entire scope.
type IdentitySwitcher interface {
	ActAs(ctx context.Context, userID uuid.UUID, fn func(ctx context.Context) error) error
}
