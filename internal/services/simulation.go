package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/campussim-backend/internal/actors"
	"github.com/yungbote/campussim-backend/internal/courseprofile"
	"github.com/yungbote/campussim-backend/internal/engagement"
	"github.com/yungbote/campussim-backend/internal/logger"
	"github.com/yungbote/campussim-backend/internal/repos"
	"github.com/yungbote/campussim-backend/internal/scheduler"
	"github.com/yungbote/campussim-backend/internal/types"
)

const (
	// RerunScopeAll re-runs every user of a forced window.
	RerunScopeAll = "all"
	// RerunScopeFailedOnly re-runs only users with no recorded actions
	// for the window: a user who failed mid-pass keeps their partial
	// actions and is not re-attempted.
	RerunScopeFailedOnly = "failed_only"
)

// SimulationConfig carries the orchestration knobs.
type SimulationConfig struct {
	RerunScope string
}

// WindowSummary aggregates one processed window.
type WindowSummary struct {
	WindowID         uuid.UUID `json:"window_id"`
	Position         int       `json:"position"`
	Courses          int       `json:"courses"`
	StudentPasses    int       `json:"student_passes"`
	InstructorPasses int       `json:"instructor_passes"`
	Actions          int       `json:"actions"`
	Failures         int       `json:"failures"`
	Announcements    int       `json:"announcements"`
}

// TermSummary aggregates one term's windows for a tick.
type TermSummary struct {
	TermID    uuid.UUID       `json:"term_id"`
	Windows   []WindowSummary `json:"windows"`
	Completed bool            `json:"completed"`
}

// TickSummary is the hierarchical report of one scheduler tick. A tick
// always completes and reports, whatever individual users did.
type TickSummary struct {
	Terms            []TermSummary `json:"terms"`
	WindowsProcessed int           `json:"windows_processed"`
	CoursesTouched   int           `json:"courses_touched"`
	StudentPasses    int           `json:"student_passes"`
	InstructorPasses int           `json:"instructor_passes"`
	ActionsEmitted   int           `json:"actions_emitted"`
	UserFailures     int           `json:"user_failures"`
}

// SimulationService is the orchestration loop: one synchronous,
// single-threaded pass over terms, windows, courses and users per tick.
type SimulationService interface {
	Tick(ctx context.Context) (*TickSummary, error)
}

type simulationService struct {
	log         *logger.Logger
	cfg         SimulationConfig
	sched       *scheduler.Service
	registry    *courseprofile.Registry
	courses     repos.CourseRepo
	learners    repos.LearnerProfileRepo
	runLog      repos.RunLogRepo
	directory   actors.EnrollmentDirectory
	students    *actors.StudentActor
	instructors *actors.InstructorActor
	tracer      trace.Tracer
}

func NewSimulationService(baseLog *logger.Logger, cfg SimulationConfig, sched *scheduler.Service, registry *courseprofile.Registry, courses repos.CourseRepo, learners repos.LearnerProfileRepo, runLog repos.RunLogRepo, directory actors.EnrollmentDirectory, students *actors.StudentActor, instructors *actors.InstructorActor) SimulationService {
	if cfg.RerunScope != RerunScopeFailedOnly {
		cfg.RerunScope = RerunScopeAll
	}
	return &simulationService{
		log:         baseLog.With("service", "SimulationService"),
		cfg:         cfg,
		sched:       sched,
		registry:    registry,
		courses:     courses,
		learners:    learners,
		runLog:      runLog,
		directory:   directory,
		students:    students,
		instructors: instructors,
		tracer:      otel.Tracer("campussim/simulation"),
	}
}

// Tick runs one full scheduling cycle. Per-user errors are caught here
// and never poison the window, course or term loops; term-level errors
// are logged and skip only that term.
func (s *simulationService) Tick(ctx context.Context) (*TickSummary, error) {
	ctx, span := s.tracer.Start(ctx, "simulation.tick")
	defer span.End()

	summary := &TickSummary{}
	if _, err := s.sched.ActivateDueTerms(ctx); err != nil {
		return nil, fmt.Errorf("activate due terms: %w", err)
	}
	terms, err := s.sched.ActiveTerms(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active terms: %w", err)
	}
	for _, term := range terms {
		ts := s.runTerm(ctx, term.ID, term.ProfileKey)
		summary.Terms = append(summary.Terms, ts)
		for _, ws := range ts.Windows {
			summary.WindowsProcessed++
			summary.CoursesTouched += ws.Courses
			summary.StudentPasses += ws.StudentPasses
			summary.InstructorPasses += ws.InstructorPasses
			summary.ActionsEmitted += ws.Actions
			summary.UserFailures += ws.Failures
		}
	}
	span.SetAttributes(
		attribute.Int("windows_processed", summary.WindowsProcessed),
		attribute.Int("actions_emitted", summary.ActionsEmitted),
		attribute.Int("user_failures", summary.UserFailures),
	)
	s.log.Info("tick complete",
		"terms", len(summary.Terms),
		"windows", summary.WindowsProcessed,
		"courses", summary.CoursesTouched,
		"student_passes", summary.StudentPasses,
		"actions", summary.ActionsEmitted,
		"failures", summary.UserFailures)
	return summary, nil
}

func (s *simulationService) runTerm(ctx context.Context, termID uuid.UUID, profileKey string) TermSummary {
	ts := TermSummary{TermID: termID}
	log := s.log.With("term_id", termID)

	profile, err := s.registry.ProfileFor(profileKey)
	if err != nil {
		log.Error("term has unknown profile, skipping", "profile_key", profileKey, "error", err)
		return ts
	}
	windows, err := s.sched.PendingWindows(ctx, termID)
	if err != nil {
		log.Error("pending window query failed, skipping term", "error", err)
		return ts
	}
	total := profile.TotalWindows()
	if len(windows) > 0 {
		// The generated schedule is immutable, but the registry may have
		// been overlaid since this term was created. The stored window
		// count wins so decay positions stay consistent with the rows.
		stored, err := s.sched.TotalWindows(ctx, termID)
		if err != nil {
			log.Error("window count query failed, skipping term", "error", err)
			return ts
		}
		if stored != total {
			log.Warn("profile window count differs from stored schedule",
				"profile_total", total, "stored_total", stored)
			total = stored
		}
	}
	for _, w := range windows {
		ws, err := s.runWindow(ctx, termID, profile, total, w)
		if err != nil {
			// Leave the window pending; a later tick or a forced
			// re-run is the remediation path.
			log.Error("window failed, leaving pending", "window_id", w.ID, "error", err)
			continue
		}
		ts.Windows = append(ts.Windows, ws)
		if err := s.sched.MarkWindowComplete(ctx, w.ID); err != nil {
			log.Error("mark window complete failed", "window_id", w.ID, "error", err)
		}
	}
	// Runs once per term per cycle even when this tick had no windows:
	// an earlier path may already have finished the term's last window.
	completed, err := s.sched.MaybeCompleteTerm(ctx, termID)
	if err != nil {
		log.Error("maybe-complete term failed", "error", err)
	}
	ts.Completed = completed
	return ts
}

func (s *simulationService) runWindow(ctx context.Context, termID uuid.UUID, profile courseprofile.TermProfile, total int, w *types.TermWindow) (WindowSummary, error) {
	ctx, span := s.tracer.Start(ctx, "simulation.window")
	defer span.End()

	ws := WindowSummary{WindowID: w.ID}
	pos, err := s.sched.WindowPosition(ctx, w)
	if err != nil {
		return ws, fmt.Errorf("window position: %w", err)
	}
	ws.Position = pos
	section := profile.SectionForPeriod(w.PeriodIndex)
	rerunning := w.Status != types.WindowStatusPending || w.ForceRerun
	span.SetAttributes(attribute.Int("position", pos), attribute.String("window_id", w.ID.String()))

	courses, err := s.courses.ListByTerm(ctx, nil, termID)
	if err != nil {
		return ws, fmt.Errorf("list courses: %w", err)
	}
	log := s.log.With("term_id", termID, "window_id", w.ID, "position", pos)
	for _, course := range courses {
		ws.Courses++
		students, err := s.directory.Students(ctx, course.ID)
		if err != nil {
			log.Error("student roster failed, skipping course", "course_id", course.ID, "error", err)
			continue
		}
		// Students first, always: instructors must observe this
		// window's student-authored threads.
		for _, member := range students {
			if s.skipOnRerun(ctx, rerunning, w.ID, member.UserID) {
				continue
			}
			n, err := s.runStudent(ctx, termID, w, pos, total, course.ID, section, member.UserID)
			if err != nil {
				ws.Failures++
				log.Error("student pass failed, continuing", "course_id", course.ID, "user_id", member.UserID, "error", err)
				continue
			}
			ws.StudentPasses++
			ws.Actions += n
		}
		instructors, err := s.directory.Instructors(ctx, course.ID)
		if err != nil {
			log.Error("instructor roster failed, skipping instructors", "course_id", course.ID, "error", err)
			continue
		}
		for _, member := range instructors {
			if s.skipOnRerun(ctx, rerunning, w.ID, member.UserID) {
				continue
			}
			n, announced, err := s.runInstructor(ctx, termID, w, pos, total, course.ID, section, member)
			if err != nil {
				ws.Failures++
				log.Error("instructor pass failed, continuing", "course_id", course.ID, "user_id", member.UserID, "error", err)
				continue
			}
			ws.InstructorPasses++
			ws.Actions += n
			if announced {
				ws.Announcements++
			}
		}
	}
	return ws, nil
}

// skipOnRerun applies the failed_only re-run scope: on a forced re-run,
// users who already recorded actions for this window are not re-attempted.
func (s *simulationService) skipOnRerun(ctx context.Context, rerunning bool, windowID, userID uuid.UUID) bool {
	if !rerunning || s.cfg.RerunScope != RerunScopeFailedOnly {
		return false
	}
	entries, err := s.runLog.ListByWindowAndUser(ctx, nil, windowID, userID)
	if err != nil {
		s.log.Warn("rerun-scope lookup failed, re-running user", "window_id", windowID, "user_id", userID, "error", err)
		return false
	}
	return len(entries) > 0
}

func (s *simulationService) runStudent(ctx context.Context, termID uuid.UUID, w *types.TermWindow, pos, total int, courseID uuid.UUID, section int, userID uuid.UUID) (count int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("student pass panicked: %v", r)
		}
	}()
	learner, err := s.learners.GetByUserID(ctx, nil, userID)
	if err != nil {
		return 0, fmt.Errorf("learner profile lookup: %w", err)
	}
	if learner == nil {
		return 0, fmt.Errorf("user %s has no learner profile", userID)
	}
	params, err := engagement.ParamsFor(learner.Archetype)
	if err != nil {
		return 0, err
	}
	return s.students.Run(ctx, actors.StudentPass{
		TermID:         termID,
		WindowID:       w.ID,
		WindowPosition: pos,
		TotalWindows:   total,
		CourseID:       courseID,
		Section:        section,
		UserID:         userID,
		Params:         params,
		Diligence:      learner.Diligence,
		TargetAt:       w.ScheduledAt,
	})
}

func (s *simulationService) runInstructor(ctx context.Context, termID uuid.UUID, w *types.TermWindow, pos, total int, courseID uuid.UUID, section int, member actors.MemberRef) (count int, announced bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("instructor pass panicked: %v", r)
		}
	}()
	return s.instructors.Run(ctx, actors.InstructorPass{
		TermID:         termID,
		WindowID:       w.ID,
		WindowPosition: pos,
		TotalWindows:   total,
		PeriodIndex:    w.PeriodIndex,
		CourseID:       courseID,
		Section:        section,
		UserID:         member.UserID,
		Profile:        engagement.InstructorProfileFor(member.InstructorProfile),
		TargetAt:       w.ScheduledAt,
	})
}
