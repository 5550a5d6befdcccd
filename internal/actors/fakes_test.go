package actors

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type fakeDiscovery struct {
	activities    []ActivityRef
	unread        map[uuid.UUID][]ThreadRef
	announcements *uuid.UUID
}

func (f *fakeDiscovery) ListActivities(ctx context.Context, courseID uuid.UUID, section int) ([]ActivityRef, error) {
	return f.activities, nil
}

func (f *fakeDiscovery) UnreadThreads(ctx context.Context, forumID, userID uuid.UUID) ([]ThreadRef, error) {
	return f.unread[forumID], nil
}

func (f *fakeDiscovery) AnnouncementsForum(ctx context.Context, courseID uuid.UUID) (*uuid.UUID, error) {
	return f.announcements, nil
}

type fakeRecorder struct {
	entries []ActionInput
	reads   []uuid.UUID
}

func (f *fakeRecorder) Record(ctx context.Context, in ActionInput) (uuid.UUID, error) {
	f.entries = append(f.entries, in)
	return uuid.New(), nil
}

func (f *fakeRecorder) MarkThreadRead(ctx context.Context, threadID, userID uuid.UUID) error {
	f.reads = append(f.reads, threadID)
	return nil
}

func (f *fakeRecorder) countType(actionType string) int {
	n := 0
	for _, e := range f.entries {
		if e.ActionType == actionType {
			n++
		}
	}
	return n
}

func (f *fakeRecorder) firstOfType(actionType string) (ActionInput, bool) {
	for _, e := range f.entries {
		if e.ActionType == actionType {
			return e, true
		}
	}
	return ActionInput{}, false
}

type gradedCall struct {
	SubmissionID uuid.UUID
	GraderID     uuid.UUID
	Score        float64
}

type fakeGateway struct {
	posted      []ThreadRef
	submitted   []uuid.UUID
	ungraded    map[uuid.UUID][]SubmissionRef
	graded      []gradedCall
	postAuthors []uuid.UUID
}

func (f *fakeGateway) PostThread(ctx context.Context, forumID, courseID, authorID uuid.UUID, subject, body string, at time.Time) (ThreadRef, error) {
	th := ThreadRef{ID: uuid.New(), AuthorID: authorID, CreatedAt: at}
	f.posted = append(f.posted, th)
	f.postAuthors = append(f.postAuthors, authorID)
	return th, nil
}

func (f *fakeGateway) SubmitAssignment(ctx context.Context, activityID, courseID, userID uuid.UUID, at time.Time) (uuid.UUID, error) {
	f.submitted = append(f.submitted, activityID)
	return uuid.New(), nil
}

func (f *fakeGateway) UngradedSubmissions(ctx context.Context, activityID uuid.UUID) ([]SubmissionRef, error) {
	return f.ungraded[activityID], nil
}

func (f *fakeGateway) GradeSubmission(ctx context.Context, submissionID, graderID uuid.UUID, score float64, at time.Time) error {
	f.graded = append(f.graded, gradedCall{SubmissionID: submissionID, GraderID: graderID, Score: score})
	return nil
}

type fakeIdentity struct {
	actedAs []uuid.UUID
}

func (f *fakeIdentity) ActAs(ctx context.Context, userID uuid.UUID, fn func(ctx context.Context) error) error {
	f.actedAs = append(f.actedAs, userID)
	return fn(ctx)
}
