package scheduler

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/campussim-backend/internal/courseprofile"
	"github.com/yungbote/campussim-backend/internal/logger"
	pkgerr "github.com/yungbote/campussim-backend/internal/pkg/errors"
	"github.com/yungbote/campussim-backend/internal/repos"
	"github.com/yungbote/campussim-backend/internal/types"
)

// Config carries the scheduler knobs.
type Config struct {
	// MaxBackfillDays bounds how far in the past a term may start.
	MaxBackfillDays int
	// TestMode makes force-rerun windows visible to PendingWindows.
	TestMode bool
}

// Service owns the term and window state machines:
//
//	term:   pending --(start elapsed)--> active --(no pending windows)--> complete
//	window: pending --(simulated)--> complete
//
// A complete window only returns to the work queue through an explicit
// force-rerun request in test mode, never automatically.
type Service struct {
	db       *gorm.DB
	log      *logger.Logger
	cfg      Config
	registry *courseprofile.Registry
	terms    repos.TermRepo
	windows  repos.WindowRepo
	now      func() time.Time
}

func NewService(db *gorm.DB, baseLog *logger.Logger, cfg Config, registry *courseprofile.Registry, terms repos.TermRepo, windows repos.WindowRepo) *Service {
	if cfg.MaxBackfillDays <= 0 {
		cfg.MaxBackfillDays = 60
	}
	return &Service{
		db:       db,
		log:      baseLog.With("service", "SchedulerService"),
		cfg:      cfg,
		registry: registry,
		terms:    terms,
		windows:  windows,
		now:      time.Now,
	}
}

// SetClock overrides the scheduler's clock. Tests only.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

type CreateTermInput struct {
	Name       string
	ProfileKey string
	StartAt    time.Time
	Backfill   bool
}

// CreateTerm validates the request, derives the calendar-week anchor, and
// generates the term's full window schedule up front. The schedule is
// immutable after this call. A past start activates the term immediately;
// with the backfill flag the elapsed windows simply stay pending and are
// drained oldest-first by the next tick.
//
// Creating a term whose week anchor and profile already exist is an
// idempotent no-op returning the existing term.
func (s *Service) CreateTerm(ctx context.Context, in CreateTermInput) (*types.Term, error) {
	profile, err := s.registry.ProfileFor(in.ProfileKey)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if age := now.Sub(in.StartAt); age > time.Duration(s.cfg.MaxBackfillDays)*24*time.Hour {
		return nil, fmt.Errorf("%w: start %s is %d days in the past (limit %d)",
			pkgerr.ErrBackfillDepthExceeded, in.StartAt.Format(time.RFC3339),
			int(age.Hours()/24), s.cfg.MaxBackfillDays)
	}
	anchor := WeekAnchor(in.StartAt)
	if existing, err := s.terms.GetByAnchorAndProfile(ctx, nil, anchor, in.ProfileKey); err != nil {
		return nil, err
	} else if existing != nil {
		s.log.Debug("term already exists for anchor, returning existing", "week_anchor", anchor, "term_id", existing.ID)
		return existing, nil
	}

	status := types.TermStatusPending
	backfilled := false
	if !in.StartAt.After(now) {
		status = types.TermStatusActive
		backfilled = in.Backfill
	}
	name := in.Name
	if name == "" {
		name = fmt.Sprintf("%s %s", profile.Name, anchor)
	}
	term := &types.Term{
		Name:       name,
		ProfileKey: in.ProfileKey,
		WeekAnchor: anchor,
		StartAt:    in.StartAt,
		EndAt:      profile.EndAt(in.StartAt),
		Status:     status,
		Backfilled: backfilled,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.terms.Create(ctx, tx, term); err != nil {
			return err
		}
		schedule := profile.Schedule(in.StartAt)
		windows := make([]*types.TermWindow, 0, len(schedule))
		for _, sw := range schedule {
			windows = append(windows, &types.TermWindow{
				TermID:      term.ID,
				PeriodIndex: sw.PeriodIndex,
				WindowKey:   sw.Key,
				Label:       sw.Label,
				ScheduledAt: sw.At,
				Status:      types.WindowStatusPending,
			})
		}
		_, err := s.windows.CreateBatch(ctx, tx, windows)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("term created",
		"term_id", term.ID, "profile", in.ProfileKey, "week_anchor", anchor,
		"windows", profile.TotalWindows(), "status", status, "backfilled", backfilled)
	return term, nil
}

// ActivateDueTerms flips pending terms whose start has elapsed to active.
// Safe to call every cycle.
func (s *Service) ActivateDueTerms(ctx context.Context) (int64, error) {
	n, err := s.terms.ActivateDue(ctx, nil, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info("terms activated", "count", n)
	}
	return n, nil
}

// ActiveTerms returns active terms oldest-start-first, the order the
// orchestration loop walks them.
func (s *Service) ActiveTerms(ctx context.Context) ([]*types.Term, error) {
	return s.terms.ListActiveOldestFirst(ctx, nil)
}

// PendingWindows returns the term's due pending windows in schedule
// order. In test mode it additionally includes any window flagged for a
// forced re-run, whatever its status or schedule.
func (s *Service) PendingWindows(ctx context.Context, termID uuid.UUID) ([]*types.TermWindow, error) {
	due, err := s.windows.ListPendingDue(ctx, nil, termID, s.now())
	if err != nil {
		return nil, err
	}
	if !s.cfg.TestMode {
		return due, nil
	}
	forced, err := s.windows.ListForceRerun(ctx, nil, termID)
	if err != nil {
		return nil, err
	}
	seen := make(map[uuid.UUID]bool, len(due))
	for _, w := range due {
		seen[w.ID] = true
	}
	for _, w := range forced {
		if !seen[w.ID] {
			due = append(due, w)
		}
	}
	sort.SliceStable(due, func(i, j int) bool { return due[i].ScheduledAt.Before(due[j].ScheduledAt) })
	return due, nil
}

// RequestRerun flags a window for a forced re-run. Only meaningful in
// test mode; outside it the flag is never consulted.
func (s *Service) RequestRerun(ctx context.Context, windowID uuid.UUID) error {
	w, err := s.windows.GetByID(ctx, nil, windowID)
	if err != nil {
		return err
	}
	if w == nil {
		return fmt.Errorf("window %s: %w", windowID, pkgerr.ErrNotFound)
	}
	return s.windows.SetForceRerun(ctx, nil, windowID, true)
}

// MarkWindowComplete stamps completion and clears force-rerun.
// Idempotent: re-marking a complete window rewrites the same state.
func (s *Service) MarkWindowComplete(ctx context.Context, windowID uuid.UUID) error {
	return s.windows.MarkComplete(ctx, nil, windowID, s.now())
}

// MaybeCompleteTerm flips the term to complete when zero of its windows
// remain pending, and reports whether the term is complete. Calling it
// again after completion returns true with no further side effect.
func (s *Service) MaybeCompleteTerm(ctx context.Context, termID uuid.UUID) (bool, error) {
	pending, err := s.windows.CountByStatus(ctx, nil, termID, types.WindowStatusPending)
	if err != nil {
		return false, err
	}
	if pending > 0 {
		return false, nil
	}
	term, err := s.terms.GetByID(ctx, nil, termID)
	if err != nil {
		return false, err
	}
	if term == nil {
		return false, fmt.Errorf("term %s: %w", termID, pkgerr.ErrNotFound)
	}
	if term.Status == types.TermStatusComplete {
		return true, nil
	}
	if err := s.terms.SetStatus(ctx, nil, termID, types.TermStatusComplete); err != nil {
		return false, err
	}
	s.log.Info("term complete", "term_id", termID)
	return true, nil
}

// WindowPosition derives the window's 0-based chronological position by
// counting siblings with strictly earlier scheduled time. Always
// recomputed; the count is the canonical definition and cannot drift with
// insertion order.
func (s *Service) WindowPosition(ctx context.Context, w *types.TermWindow) (int, error) {
	n, err := s.windows.CountEarlier(ctx, nil, w.TermID, w.ScheduledAt)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// TotalWindows counts all windows of the term.
func (s *Service) TotalWindows(ctx context.Context, termID uuid.UUID) (int, error) {
	n, err := s.windows.CountByTerm(ctx, nil, termID)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// WeekAnchor derives the calendar-week identity used for idempotent term
// reuse, e.g. "2026-W35".
func WeekAnchor(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}
