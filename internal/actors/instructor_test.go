package actors

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/campussim-backend/internal/engagement"
	"github.com/yungbote/campussim-backend/internal/logger"
)

func alwaysProfile() engagement.InstructorProfile {
	return engagement.InstructorProfile{
		Name:         "test",
		Announce:     1.0,
		ReadThread:   1.0,
		ReplyPerRead: 1.0,
		Grade:        1.0,
	}
}

func newInstructorHarness(d *fakeDiscovery, gw *fakeGateway) (*InstructorActor, *fakeRecorder, *fakeIdentity) {
	rec := &fakeRecorder{}
	id := &fakeIdentity{}
	actor := NewInstructorActor(engagement.NewModel(2), d, rec, gw, id, logger.NewNop())
	return actor, rec, id
}

func instructorPass(userID uuid.UUID, profile engagement.InstructorProfile) InstructorPass {
	return InstructorPass{
		TermID:         uuid.New(),
		WindowID:       uuid.New(),
		WindowPosition: 4,
		TotalWindows:   10,
		PeriodIndex:    3,
		CourseID:       uuid.New(),
		Section:        1,
		UserID:         userID,
		Profile:        profile,
		TargetAt:       time.Date(2026, 8, 24, 15, 0, 0, 0, time.UTC),
	}
}

func TestInstructorAnnouncesIntoReservedForum(t *testing.T) {
	annForum := uuid.New()
	d := &fakeDiscovery{announcements: &annForum}
	gw := &fakeGateway{}
	actor, rec, id := newInstructorHarness(d, gw)

	userID := uuid.New()
	_, announced, err := actor.Run(context.Background(), instructorPass(userID, alwaysProfile()))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !announced {
		t.Fatal("announce roll of 1.0 did not announce")
	}
	if len(gw.posted) != 1 || gw.postAuthors[0] != userID {
		t.Fatalf("posted=%d author=%v, want one post by the instructor", len(gw.posted), gw.postAuthors)
	}
	if rec.countType(engagement.ActionAnnouncementPosted) != 1 {
		t.Fatal("announcement_posted not recorded")
	}
	ann, _ := rec.firstOfType(engagement.ActionAnnouncementPosted)
	if s, _ := ann.Detail["subject"].(string); s == "" {
		t.Fatalf("announcement detail = %v, want a subject", ann.Detail)
	}
	if len(id.actedAs) != 1 || id.actedAs[0] != userID {
		t.Fatalf("acted as %v, want [%s]", id.actedAs, userID)
	}
}

func TestInstructorWithoutAnnouncementsForumSkipsSilently(t *testing.T) {
	d := &fakeDiscovery{}
	gw := &fakeGateway{}
	actor, rec, _ := newInstructorHarness(d, gw)

	_, announced, err := actor.Run(context.Background(), instructorPass(uuid.New(), alwaysProfile()))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if announced || len(gw.posted) != 0 || rec.countType(engagement.ActionAnnouncementPosted) != 0 {
		t.Fatalf("announced=%v posts=%d, want silent skip without a reserved forum", announced, len(gw.posted))
	}
}

func TestInstructorForumWalkIsUncapped(t *testing.T) {
	forum := ActivityRef{ID: uuid.New(), Kind: "forum"}
	var threads []ThreadRef
	for i := 0; i < 5; i++ {
		threads = append(threads, ThreadRef{ID: uuid.New(), AuthorID: uuid.New()})
	}
	threads = append(threads, ThreadRef{ID: uuid.New(), AuthorID: uuid.Nil})
	d := &fakeDiscovery{
		activities: []ActivityRef{forum},
		unread:     map[uuid.UUID][]ThreadRef{forum.ID: threads},
	}
	actor, rec, _ := newInstructorHarness(d, &fakeGateway{})

	if _, _, err := actor.Run(context.Background(), instructorPass(uuid.New(), alwaysProfile())); err != nil {
		t.Fatalf("Run: %v", err)
	}
	// All five attributable threads read and replied to; the unknown
	// author skipped. No cap applies to instructors.
	if got := rec.countType(engagement.ActionThreadRead); got != 5 {
		t.Fatalf("thread reads = %d, want 5", got)
	}
	if got := rec.countType(engagement.ActionThreadReplied); got != 5 {
		t.Fatalf("thread replies = %d, want 5", got)
	}
	if len(rec.reads) != 5 {
		t.Fatalf("read marks = %d, want 5", len(rec.reads))
	}
}

func TestInstructorGradingOverZeroSubmissionsEmitsNothing(t *testing.T) {
	assignment := ActivityRef{ID: uuid.New(), Kind: "assignment"}
	d := &fakeDiscovery{activities: []ActivityRef{assignment}}
	gw := &fakeGateway{}
	actor, rec, _ := newInstructorHarness(d, gw)

	profile := alwaysProfile()
	profile.Announce = 0
	n, _, err := actor.Run(context.Background(), instructorPass(uuid.New(), profile))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// The grade roll succeeded, but with nothing to grade the pass stays
	// silent: no submission_graded and no gradebook_viewed.
	if n != 0 || len(rec.entries) != 0 || len(gw.graded) != 0 {
		t.Fatalf("empty grading pass emitted n=%d entries=%d graded=%d", n, len(rec.entries), len(gw.graded))
	}
}

func TestInstructorGradesAllUngradedThenViewsGradebook(t *testing.T) {
	assignment := ActivityRef{ID: uuid.New(), Kind: "assignment"}
	studentA := uuid.New()
	studentB := uuid.New()
	subs := []SubmissionRef{
		{ID: uuid.New(), UserID: studentA},
		{ID: uuid.New(), UserID: studentB},
	}
	d := &fakeDiscovery{activities: []ActivityRef{assignment}}
	gw := &fakeGateway{ungraded: map[uuid.UUID][]SubmissionRef{assignment.ID: subs}}
	actor, rec, _ := newInstructorHarness(d, gw)

	profile := alwaysProfile()
	profile.Announce = 0
	graderID := uuid.New()
	if _, _, err := actor.Run(context.Background(), instructorPass(graderID, profile)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(gw.graded) != 2 {
		t.Fatalf("graded %d submissions, want 2", len(gw.graded))
	}
	for _, g := range gw.graded {
		if g.GraderID != graderID {
			t.Fatalf("grader = %s, want %s", g.GraderID, graderID)
		}
		if g.Score < 50 || g.Score > 100 {
			t.Fatalf("score %v outside [50, 100]", g.Score)
		}
	}
	if got := rec.countType(engagement.ActionSubmissionGraded); got != 2 {
		t.Fatalf("submission_graded records = %d, want 2", got)
	}
	// Exactly one gradebook view, and only because grading happened.
	if got := rec.countType(engagement.ActionGradebookViewed); got != 1 {
		t.Fatalf("gradebook views = %d, want 1", got)
	}
	// Graded records attribute the student, not the grader, and carry
	// the assigned score.
	g, _ := rec.firstOfType(engagement.ActionSubmissionGraded)
	if g.RelatedUserID == nil || (*g.RelatedUserID != studentA && *g.RelatedUserID != studentB) {
		t.Fatalf("graded record related user = %v, want a student", g.RelatedUserID)
	}
	score, ok := g.Detail["score"].(float64)
	if !ok || score < 50 || score > 100 {
		t.Fatalf("graded record detail = %v, want a score in [50, 100]", g.Detail)
	}
}

func TestInstructorUnresponsiveProfileCanStayIdle(t *testing.T) {
	forum := ActivityRef{ID: uuid.New(), Kind: "forum"}
	d := &fakeDiscovery{
		activities: []ActivityRef{forum},
		unread:     map[uuid.UUID][]ThreadRef{forum.ID: {{ID: uuid.New(), AuthorID: uuid.New()}}},
	}
	actor, rec, _ := newInstructorHarness(d, &fakeGateway{})

	// All-zero profile: a fully idle window is a valid outcome, not an
	// error.
	profile := engagement.InstructorProfile{Name: "test"}
	n, announced, err := actor.Run(context.Background(), instructorPass(uuid.New(), profile))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n != 0 || announced || len(rec.entries) != 0 {
		t.Fatalf("zero-probability profile acted: n=%d announced=%v", n, announced)
	}
}
