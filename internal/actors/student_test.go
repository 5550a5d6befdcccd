package actors

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/campussim-backend/internal/engagement"
	"github.com/yungbote/campussim-backend/internal/logger"
)

// alwaysParams makes every engage roll certain, so the sequencing logic
// can be asserted without probabilistic flake.
func alwaysParams() engagement.ArchetypeParams {
	return engagement.ArchetypeParams{
		Tag:           "test",
		PassiveBase:   1.0,
		ActiveBase:    1.0,
		DecayRate:     0,
		DecayFloor:    1.0,
		MaxForumReads: engagement.UnlimitedForumReads,
	}
}

// neverActiveParams passes every passive roll and fails every active one.
func neverActiveParams() engagement.ArchetypeParams {
	p := alwaysParams()
	p.ActiveBase = 0
	return p
}

func newStudentHarness(d *fakeDiscovery) (*StudentActor, *fakeRecorder, *fakeGateway, *fakeIdentity) {
	rec := &fakeRecorder{}
	gw := &fakeGateway{}
	id := &fakeIdentity{}
	actor := NewStudentActor(engagement.NewModel(1), d, rec, gw, id, logger.NewNop())
	return actor, rec, gw, id
}

func studentPass(userID uuid.UUID, params engagement.ArchetypeParams) StudentPass {
	return StudentPass{
		TermID:         uuid.New(),
		WindowID:       uuid.New(),
		WindowPosition: 3,
		TotalWindows:   10,
		CourseID:       uuid.New(),
		Section:        1,
		UserID:         userID,
		Params:         params,
		Diligence:      1.0,
		TargetAt:       time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC),
	}
}

func TestStudentGatingRollZeroMeansNoActions(t *testing.T) {
	d := &fakeDiscovery{activities: []ActivityRef{{ID: uuid.New(), Kind: "page"}}}
	actor, rec, _, _ := newStudentHarness(d)

	params := alwaysParams()
	params.PassiveBase = 0
	n, err := actor.Run(context.Background(), studentPass(uuid.New(), params))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n != 0 || len(rec.entries) != 0 {
		t.Fatalf("gated-out student emitted %d actions (%d recorded), want 0", n, len(rec.entries))
	}
}

func TestStudentRunsUnderActingIdentity(t *testing.T) {
	d := &fakeDiscovery{}
	actor, _, _, id := newStudentHarness(d)

	userID := uuid.New()
	if _, err := actor.Run(context.Background(), studentPass(userID, alwaysParams())); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(id.actedAs) != 1 || id.actedAs[0] != userID {
		t.Fatalf("acted as %v, want exactly [%s]", id.actedAs, userID)
	}
}

func TestStudentQuizNeverSubmitsWithoutAttempt(t *testing.T) {
	quiz := ActivityRef{ID: uuid.New(), Kind: "quiz"}
	d := &fakeDiscovery{activities: []ActivityRef{quiz}}
	rec := &fakeRecorder{}
	actor := NewStudentActor(engagement.NewModel(11), d, rec, &fakeGateway{}, &fakeIdentity{}, logger.NewNop())

	// Real archetype probabilities over many windows: whatever the rolls
	// do, a submit must always ride on an attempt, and a quiz pass emits
	// 0, 2 or 3 quiz actions, never 1.
	params, err := engagement.ParamsFor(engagement.ArchetypeStandard)
	if err != nil {
		t.Fatalf("ParamsFor: %v", err)
	}
	for i := 0; i < 200; i++ {
		rec.entries = nil
		pass := studentPass(uuid.New(), params)
		pass.WindowPosition = i % pass.TotalWindows
		pass.Diligence = 0.73
		if _, err := actor.Run(context.Background(), pass); err != nil {
			t.Fatalf("Run %d: %v", i, err)
		}
		attempts := rec.countType(engagement.ActionQuizAttempted)
		submits := rec.countType(engagement.ActionQuizSubmitted)
		views := rec.countType(engagement.ActionQuizGradeViewed)
		if submits != attempts {
			t.Fatalf("run %d: %d submits for %d attempts", i, submits, attempts)
		}
		if views > attempts {
			t.Fatalf("run %d: %d grade views without attempts", i, views)
		}
		total := attempts + submits + views
		if total == 1 {
			t.Fatalf("run %d: exactly one quiz action recorded", i)
		}
	}
}

func TestStudentAssignmentPathsAreMutuallyExclusive(t *testing.T) {
	assignment := ActivityRef{ID: uuid.New(), Kind: "assignment"}

	// Active path: view + platform submit + submitted record.
	d := &fakeDiscovery{activities: []ActivityRef{assignment}}
	actor, rec, gw, _ := newStudentHarness(d)
	if _, err := actor.Run(context.Background(), studentPass(uuid.New(), alwaysParams())); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(gw.submitted) != 1 || gw.submitted[0] != assignment.ID {
		t.Fatalf("platform submissions = %v, want one for the assignment", gw.submitted)
	}
	sub, ok := rec.firstOfType(engagement.ActionAssignmentSubmitted)
	if !ok || sub.Outcome != "submitted" {
		t.Fatalf("submitted record = %+v ok=%v", sub, ok)
	}
	if _, ok := sub.Detail["submission_id"].(uuid.UUID); !ok {
		t.Fatalf("submitted record detail = %v, want a submission id", sub.Detail)
	}
	if v, _ := rec.firstOfType(engagement.ActionAssignmentViewed); v.Outcome != "" {
		t.Fatalf("active-path view outcome = %q, want empty", v.Outcome)
	}

	// Passive fallback: view-only record, no platform submission.
	actor2, rec2, gw2, _ := newStudentHarness(d)
	if _, err := actor2.Run(context.Background(), studentPass(uuid.New(), neverActiveParams())); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(gw2.submitted) != 0 {
		t.Fatalf("passive path still submitted: %v", gw2.submitted)
	}
	if rec2.countType(engagement.ActionAssignmentSubmitted) != 0 {
		t.Fatal("passive path recorded a submission")
	}
	v, ok := rec2.firstOfType(engagement.ActionAssignmentViewed)
	if !ok || v.Outcome != "viewed_only" {
		t.Fatalf("passive view record = %+v ok=%v, want viewed_only", v, ok)
	}
}

func TestStudentSkipsThreadsWithUnknownAuthor(t *testing.T) {
	forum := ActivityRef{ID: uuid.New(), Kind: "forum"}
	author := uuid.New()
	known := ThreadRef{ID: uuid.New(), AuthorID: author}
	unknown := ThreadRef{ID: uuid.New(), AuthorID: uuid.Nil}
	d := &fakeDiscovery{
		activities: []ActivityRef{forum},
		unread:     map[uuid.UUID][]ThreadRef{forum.ID: {unknown, known}},
	}
	actor, rec, _, _ := newStudentHarness(d)

	if _, err := actor.Run(context.Background(), studentPass(uuid.New(), neverActiveParams())); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := rec.countType(engagement.ActionThreadRead); got != 1 {
		t.Fatalf("thread reads = %d, want 1 (unknown author skipped)", got)
	}
	if len(rec.reads) != 1 || rec.reads[0] != known.ID {
		t.Fatalf("marked read %v, want only %s", rec.reads, known.ID)
	}
	read, _ := rec.firstOfType(engagement.ActionThreadRead)
	if read.RelatedUserID == nil || *read.RelatedUserID != author {
		t.Fatalf("thread read related user = %v, want author %s", read.RelatedUserID, author)
	}
}

func TestStudentForumReadCap(t *testing.T) {
	forum := ActivityRef{ID: uuid.New(), Kind: "forum"}
	var threads []ThreadRef
	for i := 0; i < 5; i++ {
		threads = append(threads, ThreadRef{ID: uuid.New(), AuthorID: uuid.New()})
	}
	d := &fakeDiscovery{
		activities: []ActivityRef{forum},
		unread:     map[uuid.UUID][]ThreadRef{forum.ID: threads},
	}
	actor, rec, _, _ := newStudentHarness(d)

	params := neverActiveParams()
	params.MaxForumReads = 2
	if _, err := actor.Run(context.Background(), studentPass(uuid.New(), params)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := rec.countType(engagement.ActionThreadRead); got != 2 {
		t.Fatalf("thread reads = %d, want cap of 2", got)
	}
}

func TestStudentZeroForumReadsStillPostsNewThreads(t *testing.T) {
	forum := ActivityRef{ID: uuid.New(), Kind: "forum"}
	d := &fakeDiscovery{
		activities: []ActivityRef{forum},
		unread:     map[uuid.UUID][]ThreadRef{forum.ID: {{ID: uuid.New(), AuthorID: uuid.New()}}},
	}
	actor, rec, gw, _ := newStudentHarness(d)

	params := alwaysParams()
	params.MaxForumReads = 0
	if _, err := actor.Run(context.Background(), studentPass(uuid.New(), params)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	// The read/reply walk is skipped entirely; the independent new-post
	// roll still fires.
	if got := rec.countType(engagement.ActionThreadRead); got != 0 {
		t.Fatalf("thread reads = %d, want 0 with a zero cap", got)
	}
	if len(gw.posted) != 1 || rec.countType(engagement.ActionThreadCreated) != 1 {
		t.Fatalf("posted=%d created-records=%d, want 1 and 1", len(gw.posted), rec.countType(engagement.ActionThreadCreated))
	}
	created, _ := rec.firstOfType(engagement.ActionThreadCreated)
	if s, _ := created.Detail["subject"].(string); s == "" {
		t.Fatalf("created-thread detail = %v, want a subject", created.Detail)
	}
}

func TestStudentReadsAnnouncementsWithoutReplying(t *testing.T) {
	annForum := uuid.New()
	instructor := uuid.New()
	d := &fakeDiscovery{
		announcements: &annForum,
		unread: map[uuid.UUID][]ThreadRef{
			annForum: {{ID: uuid.New(), AuthorID: instructor}, {ID: uuid.New(), AuthorID: uuid.Nil}},
		},
	}
	actor, rec, _, _ := newStudentHarness(d)

	if _, err := actor.Run(context.Background(), studentPass(uuid.New(), alwaysParams())); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := rec.countType(engagement.ActionAnnouncementRead); got != 1 {
		t.Fatalf("announcement reads = %d, want 1 (unknown author skipped)", got)
	}
	// Replies to announcements are off by default even when every active
	// roll succeeds.
	if got := rec.countType(engagement.ActionThreadReplied); got != 0 {
		t.Fatalf("announcement replies = %d, want 0 by default", got)
	}
}

func TestStudentGradeViewRidesTheLateTermRamp(t *testing.T) {
	d := &fakeDiscovery{}
	actor, rec, _, _ := newStudentHarness(d)

	// First window: ramp weight is 0, so no grades view even with
	// certain rolls.
	pass := studentPass(uuid.New(), alwaysParams())
	pass.WindowPosition = 0
	if _, err := actor.Run(context.Background(), pass); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rec.countType(engagement.ActionGradesViewed) != 0 {
		t.Fatal("grades viewed at the first window despite zero ramp weight")
	}

	// Last window: weight is exactly 1.0.
	rec.entries = nil
	pass.WindowPosition = pass.TotalWindows - 1
	if _, err := actor.Run(context.Background(), pass); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rec.countType(engagement.ActionGradesViewed) != 1 {
		t.Fatal("grades not viewed at the last window despite full ramp weight")
	}
	viewed, _ := rec.firstOfType(engagement.ActionGradesViewed)
	if p, _ := viewed.Detail["probability"].(float64); p != 1.0 {
		t.Fatalf("grades-viewed detail = %v, want probability 1.0", viewed.Detail)
	}
}
