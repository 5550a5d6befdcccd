package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/campussim-backend/internal/actors"
	"github.com/yungbote/campussim-backend/internal/courseprofile"
	"github.com/yungbote/campussim-backend/internal/engagement"
	"github.com/yungbote/campussim-backend/internal/platform/lms"
	"github.com/yungbote/campussim-backend/internal/repos"
	"github.com/yungbote/campussim-backend/internal/repos/testutil"
	"github.com/yungbote/campussim-backend/internal/scheduler"
	"github.com/yungbote/campussim-backend/internal/stats"
	"github.com/yungbote/campussim-backend/internal/types"
)

type tickHarness struct {
	db         *gorm.DB
	sched      *scheduler.Service
	provision  ProvisionService
	simulation SimulationService
	registry   *courseprofile.Registry
	runLog     repos.RunLogRepo
	windows    repos.WindowRepo
	terms      repos.TermRepo
}

func newTickHarness(t *testing.T, cfg SimulationConfig) *tickHarness {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)

	termRepo := repos.NewTermRepo(db, log)
	windowRepo := repos.NewWindowRepo(db, log)
	simUserRepo := repos.NewSimUserRepo(db, log)
	learnerProfileRepo := repos.NewLearnerProfileRepo(db, log)
	runLogRepo := repos.NewRunLogRepo(db, log)
	courseRepo := repos.NewCourseRepo(db, log)
	activityRepo := repos.NewActivityRepo(db, log)
	discussionRepo := repos.NewDiscussionRepo(db, log)
	enrollmentRepo := repos.NewEnrollmentRepo(db, log)
	submissionRepo := repos.NewSubmissionRepo(db, log)

	registry := courseprofile.NewRegistry()
	discovery := lms.NewDiscovery(db, log, courseRepo, activityRepo, discussionRepo)
	recorder := lms.NewRecorder(db, log, runLogRepo, discussionRepo)
	gateway := lms.NewGateway(db, log, discussionRepo, submissionRepo)
	identity := lms.NewTokenSwitcher(log, "test-secret", time.Minute)
	directory := lms.NewDirectory(db, log, enrollmentRepo)

	model := engagement.NewModel(17)
	sampler := stats.NewSampler(18)
	studentActor := actors.NewStudentActor(model, discovery, recorder, gateway, identity, log)
	instructorActor := actors.NewInstructorActor(model, discovery, recorder, gateway, identity, log)

	schedService := scheduler.NewService(db, log, scheduler.Config{}, registry, termRepo, windowRepo)
	return &tickHarness{
		db:        db,
		sched:     schedService,
		provision: NewProvisionService(db, log, simUserRepo, learnerProfileRepo, enrollmentRepo, courseRepo, activityRepo, sampler, 19),
		simulation: NewSimulationService(log, cfg, schedService, registry, courseRepo,
			learnerProfileRepo, runLogRepo, directory, studentActor, instructorActor),
		registry: registry,
		runLog:   runLogRepo,
		windows:  windowRepo,
		terms:    termRepo,
	}
}

func (h *tickHarness) seedBackdatedTerm(t *testing.T, ctx context.Context) *types.Term {
	t.Helper()
	term, err := h.sched.CreateTerm(ctx, scheduler.CreateTermInput{
		ProfileKey: "smoke_term",
		StartAt:    time.Now().AddDate(0, 0, -10),
		Backfill:   true,
	})
	if err != nil {
		t.Fatalf("CreateTerm: %v", err)
	}
	profile, err := courseprofile.NewRegistry().ProfileFor(term.ProfileKey)
	if err != nil {
		t.Fatalf("ProfileFor: %v", err)
	}
	if err := h.provision.EnsureTermPool(ctx, term, profile); err != nil {
		t.Fatalf("EnsureTermPool: %v", err)
	}
	return term
}

func TestTickDrainsBackdatedTermEndToEnd(t *testing.T) {
	h := newTickHarness(t, SimulationConfig{})
	ctx := context.Background()
	term := h.seedBackdatedTerm(t, ctx)

	summary, err := h.simulation.Tick(ctx)
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	// smoke_term: 2 windows, 1 course, 3 students, 1 instructor.
	if summary.WindowsProcessed != 2 {
		t.Fatalf("windows processed = %d, want 2", summary.WindowsProcessed)
	}
	if summary.StudentPasses != 6 || summary.InstructorPasses != 2 {
		t.Fatalf("passes = %d students / %d instructors, want 6 / 2",
			summary.StudentPasses, summary.InstructorPasses)
	}
	if summary.UserFailures != 0 {
		t.Fatalf("user failures = %d, want 0", summary.UserFailures)
	}
	if len(summary.Terms) != 1 || !summary.Terms[0].Completed {
		t.Fatalf("term summary = %+v, want one completed term", summary.Terms)
	}

	// The run log is the ground truth the summary counts must agree with.
	total, err := h.runLog.CountByTerm(ctx, nil, term.ID)
	if err != nil {
		t.Fatalf("CountByTerm: %v", err)
	}
	if int(total) != summary.ActionsEmitted {
		t.Fatalf("run log has %d rows, summary claims %d", total, summary.ActionsEmitted)
	}

	pending, err := h.windows.CountByStatus(ctx, nil, term.ID, types.WindowStatusPending)
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	if pending != 0 {
		t.Fatalf("%d windows still pending after the tick", pending)
	}
	reloaded, err := h.terms.GetByID(ctx, nil, term.ID)
	if err != nil || reloaded == nil {
		t.Fatalf("reload term: %v", err)
	}
	if reloaded.Status != types.TermStatusComplete {
		t.Fatalf("term status = %q, want complete", reloaded.Status)
	}

	// Every row carries a valid position for its window.
	rows, err := h.runLog.ListByWindow(ctx, nil, summary.Terms[0].Windows[0].WindowID)
	if err != nil {
		t.Fatalf("ListByWindow: %v", err)
	}
	for _, row := range rows {
		if row.WindowPosition != 0 {
			t.Fatalf("first-window row has position %d", row.WindowPosition)
		}
		if row.ActionClass != string(engagement.ClassActive) && row.ActionClass != string(engagement.ClassPassive) {
			t.Fatalf("row has unknown action class %q", row.ActionClass)
		}
	}
}

func TestSecondTickIsANoOp(t *testing.T) {
	h := newTickHarness(t, SimulationConfig{})
	ctx := context.Background()
	term := h.seedBackdatedTerm(t, ctx)

	if _, err := h.simulation.Tick(ctx); err != nil {
		t.Fatalf("first Tick: %v", err)
	}
	before, err := h.runLog.CountByTerm(ctx, nil, term.ID)
	if err != nil {
		t.Fatalf("CountByTerm: %v", err)
	}
	summary, err := h.simulation.Tick(ctx)
	if err != nil {
		t.Fatalf("second Tick: %v", err)
	}
	if summary.WindowsProcessed != 0 || summary.ActionsEmitted != 0 {
		t.Fatalf("second tick processed %d windows and %d actions, want 0",
			summary.WindowsProcessed, summary.ActionsEmitted)
	}
	after, err := h.runLog.CountByTerm(ctx, nil, term.ID)
	if err != nil {
		t.Fatalf("CountByTerm: %v", err)
	}
	if after != before {
		t.Fatalf("run log grew from %d to %d on a no-op tick", before, after)
	}
	// Completion reporting stays stable across repeat ticks.
	if len(summary.Terms) != 0 {
		for _, ts := range summary.Terms {
			if !ts.Completed {
				t.Fatalf("completed term reported incomplete: %+v", ts)
			}
		}
	}
}

func TestTickUsesStoredScheduleWhenProfileDrifts(t *testing.T) {
	h := newTickHarness(t, SimulationConfig{})
	ctx := context.Background()
	term := h.seedBackdatedTerm(t, ctx)

	// Overlay the profile down to a single window after the schedule was
	// generated. The stored two-window schedule wins over the drifted
	// registry, so both windows still run and the term completes.
	overlay := filepath.Join(t.TempDir(), "profiles.yaml")
	doc := []byte(`profiles:
  - key: smoke_term
    name: Drifted smoke term
    days: 1
    slots:
      - key: noon
        label: Midday
        hour: 12
    sections: 1
    courses: 1
    students_per_course: 3
    instructors_per_course: 1
    instructor_mix: [responsive]
`)
	if err := os.WriteFile(overlay, doc, 0o644); err != nil {
		t.Fatalf("write overlay: %v", err)
	}
	if err := h.registry.LoadOverlay(overlay); err != nil {
		t.Fatalf("LoadOverlay: %v", err)
	}

	summary, err := h.simulation.Tick(ctx)
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if summary.WindowsProcessed != 2 {
		t.Fatalf("windows processed = %d, want the stored 2", summary.WindowsProcessed)
	}
	reloaded, err := h.terms.GetByID(ctx, nil, term.ID)
	if err != nil || reloaded == nil {
		t.Fatalf("reload term: %v", err)
	}
	if reloaded.Status != types.TermStatusComplete {
		t.Fatalf("term status = %q, want complete", reloaded.Status)
	}
}

func TestProvisioningIsIdempotent(t *testing.T) {
	h := newTickHarness(t, SimulationConfig{})
	ctx := context.Background()
	term := h.seedBackdatedTerm(t, ctx)

	var usersBefore, profilesBefore int64
	if err := h.db.Model(&types.SimUser{}).Count(&usersBefore).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if err := h.db.Model(&types.LearnerProfile{}).Count(&profilesBefore).Error; err != nil {
		t.Fatalf("count profiles: %v", err)
	}
	var diligenceBefore []float64
	if err := h.db.Model(&types.LearnerProfile{}).Order("user_id").Pluck("diligence", &diligenceBefore).Error; err != nil {
		t.Fatalf("pluck diligence: %v", err)
	}

	profile, err := courseprofile.NewRegistry().ProfileFor(term.ProfileKey)
	if err != nil {
		t.Fatalf("ProfileFor: %v", err)
	}
	if err := h.provision.EnsureTermPool(ctx, term, profile); err != nil {
		t.Fatalf("EnsureTermPool again: %v", err)
	}

	var usersAfter, profilesAfter int64
	if err := h.db.Model(&types.SimUser{}).Count(&usersAfter).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if err := h.db.Model(&types.LearnerProfile{}).Count(&profilesAfter).Error; err != nil {
		t.Fatalf("count profiles: %v", err)
	}
	if usersAfter != usersBefore || profilesAfter != profilesBefore {
		t.Fatalf("re-provisioning grew the pool: users %d->%d profiles %d->%d",
			usersBefore, usersAfter, profilesBefore, profilesAfter)
	}
	// Diligence scalars are drawn once and never regenerated.
	var diligenceAfter []float64
	if err := h.db.Model(&types.LearnerProfile{}).Order("user_id").Pluck("diligence", &diligenceAfter).Error; err != nil {
		t.Fatalf("pluck diligence: %v", err)
	}
	for i := range diligenceBefore {
		if diligenceAfter[i] != diligenceBefore[i] {
			t.Fatalf("diligence %d changed from %v to %v", i, diligenceBefore[i], diligenceAfter[i])
		}
	}
}
