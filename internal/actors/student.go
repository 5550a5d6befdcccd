package actors

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/campussim-backend/internal/engagement"
	"github.com/yungbote/campussim-backend/internal/logger"
)

// StudentPass is everything one student needs for one window in one
// course.
type StudentPass struct {
	TermID         uuid.UUID
	WindowID       uuid.UUID
	WindowPosition int
	TotalWindows   int
	CourseID       uuid.UUID
	Section        int
	UserID         uuid.UUID
	Params         engagement.ArchetypeParams
	Diligence      float64
	TargetAt       time.Time
}

// StudentActor decides and sequences one student's actions for one
// window. Every roll is independent; the only correlation across actions
// is the shared diligence scalar and decay position.
type StudentActor struct {
	model     *engagement.Model
	discovery ContentDiscovery
	recorder  ActionRecorder
	gateway   CourseGateway
	identity  IdentitySwitcher
	log       *logger.Logger

	// AnnouncementReplies enables the (default-off) student reply roll on
	// unread announcements.
	AnnouncementReplies bool
}

func NewStudentActor(model *engagement.Model, discovery ContentDiscovery, recorder ActionRecorder, gateway CourseGateway, identity IdentitySwitcher, baseLog *logger.Logger) *StudentActor {
	return &StudentActor{
		model:     model,
		discovery: discovery,
		recorder:  recorder,
		gateway:   gateway,
		identity:  identity,
		log:       baseLog.With("actor", "student"),
	}
}

// Run executes the full student sequence for one window and returns the
// number of actions emitted. A failed gating roll is the sole source of
// zero-activity windows.
func (a *StudentActor) Run(ctx context.Context, pass StudentPass) (int, error) {
	count := 0
	err := a.identity.ActAs(ctx, pass.UserID, func(ctx context.Context) error {
		n, err := a.run(ctx, pass)
		count = n
		return err
	})
	return count, err
}

func (a *StudentActor) run(ctx context.Context, pass StudentPass) (int, error) {
	if !a.model.ShouldEngage(engagement.ClassPassive, pass.WindowPosition, pass.TotalWindows, pass.Params, pass.Diligence) {
		return 0, nil
	}
	count := 0
	if err := a.record(ctx, pass, engagement.ActionCourseViewed, nil, nil, "", nil); err != nil {
		return count, err
	}
	count++

	activities, err := a.discovery.ListActivities(ctx, pass.CourseID, pass.Section)
	if err != nil {
		return count, fmt.Errorf("list activities: %w", err)
	}
	for _, act := range activities {
		n, err := a.runActivity(ctx, pass, act)
		count += n
		if err != nil {
			return count, err
		}
	}

	n, err := a.readAnnouncements(ctx, pass)
	count += n
	if err != nil {
		return count, err
	}

	if a.model.ShouldViewGrades(pass.WindowPosition, pass.TotalWindows, pass.Params.PassiveBase, pass.Diligence) {
		detail := map[string]any{
			"probability": engagement.GradeViewProbability(pass.WindowPosition, pass.TotalWindows, pass.Params.PassiveBase, pass.Diligence),
		}
		if err := a.record(ctx, pass, engagement.ActionGradesViewed, nil, nil, "", detail); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (a *StudentActor) runActivity(ctx context.Context, pass StudentPass, act ActivityRef) (int, error) {
	switch act.Kind {
	case "page":
		return a.runPage(ctx, pass, act)
	case "quiz":
		return a.runQuiz(ctx, pass, act)
	case "assignment":
		return a.runAssignment(ctx, pass, act)
	case "forum":
		return a.runForum(ctx, pass, act)
	default:
		a.log.Debug("skipping activity of unknown kind", "kind", act.Kind, "activity_id", act.ID)
		return 0, nil
	}
}

func (a *StudentActor) runPage(ctx context.Context, pass StudentPass, act ActivityRef) (int, error) {
	if !a.passive(pass) {
		return 0, nil
	}
	if err := a.record(ctx, pass, engagement.ActionPageViewed, &act.ID, nil, "", nil); err != nil {
		return 0, err
	}
	return 1, nil
}

// runQuiz emits attempt+submit on an active success, with an optional
// grade view after. A student who does not attempt leaves no record at
// all: there is deliberately no passive view-only path for quizzes.
func (a *StudentActor) runQuiz(ctx context.Context, pass StudentPass, act ActivityRef) (int, error) {
	if !a.active(pass) {
		return 0, nil
	}
	count := 0
	if err := a.record(ctx, pass, engagement.ActionQuizAttempted, &act.ID, nil, "", nil); err != nil {
		return count, err
	}
	count++
	if err := a.record(ctx, pass, engagement.ActionQuizSubmitted, &act.ID, nil, "submitted", nil); err != nil {
		return count, err
	}
	count++
	if a.passive(pass) {
		if err := a.record(ctx, pass, engagement.ActionQuizGradeViewed, &act.ID, nil, "", nil); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// runAssignment rolls active first; only on failure does the passive
// view-only fallback roll happen. The two paths are mutually exclusive.
func (a *StudentActor) runAssignment(ctx context.Context, pass StudentPass, act ActivityRef) (int, error) {
	if a.active(pass) {
		count := 0
		if err := a.record(ctx, pass, engagement.ActionAssignmentViewed, &act.ID, nil, "", nil); err != nil {
			return count, err
		}
		count++
		subID, err := a.gateway.SubmitAssignment(ctx, act.ID, pass.CourseID, pass.UserID, pass.TargetAt)
		if err != nil {
			return count, fmt.Errorf("submit assignment: %w", err)
		}
		if err := a.record(ctx, pass, engagement.ActionAssignmentSubmitted, &act.ID, nil, "submitted",
			map[string]any{"submission_id": subID}); err != nil {
			return count, err
		}
		count++
		return count, nil
	}
	if a.passive(pass) {
		if err := a.record(ctx, pass, engagement.ActionAssignmentViewed, &act.ID, nil, "viewed_only", nil); err != nil {
			return 0, err
		}
		return 1, nil
	}
	return 0, nil
}

// runForum runs two independent sub-processes: the capped read/reply walk
// over unread threads, then one new-post roll regardless of the first's
// outcome.
func (a *StudentActor) runForum(ctx context.Context, pass StudentPass, act ActivityRef) (int, error) {
	count := 0
	if pass.Params.MaxForumReads != 0 {
		threads, err := a.discovery.UnreadThreads(ctx, act.ID, pass.UserID)
		if err != nil {
			return count, fmt.Errorf("unread threads: %w", err)
		}
		if pass.Params.MaxForumReads != engagement.UnlimitedForumReads && len(threads) > pass.Params.MaxForumReads {
			threads = threads[:pass.Params.MaxForumReads]
		}
		for _, th := range threads {
			if th.AuthorID == uuid.Nil {
				// A missing social-graph edge beats a fabricated one.
				a.log.Warn("thread author unknown, skipping read/reply", "thread_id", th.ID, "forum_id", act.ID)
				continue
			}
			if !a.passive(pass) {
				continue
			}
			if err := a.recorder.MarkThreadRead(ctx, th.ID, pass.UserID); err != nil {
				return count, fmt.Errorf("mark thread read: %w", err)
			}
			author := th.AuthorID
			if err := a.record(ctx, pass, engagement.ActionThreadRead, &th.ID, &author, "", nil); err != nil {
				return count, err
			}
			count++
			if a.active(pass) {
				if err := a.record(ctx, pass, engagement.ActionThreadReplied, &th.ID, &author, "", nil); err != nil {
					return count, err
				}
				count++
			}
		}
	}
	if a.active(pass) {
		subject := fillerSubject(pass.UserID)
		th, err := a.gateway.PostThread(ctx, act.ID, pass.CourseID, pass.UserID,
			subject, fillerBody(pass.UserID), pass.TargetAt)
		if err != nil {
			return count, fmt.Errorf("post thread: %w", err)
		}
		if err := a.record(ctx, pass, engagement.ActionThreadCreated, &th.ID, nil, "",
			map[string]any{"subject": subject}); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// readAnnouncements rolls once per unread instructor announcement. The
// announcements were posted in prior windows; unread state carries them
// forward naturally.
func (a *StudentActor) readAnnouncements(ctx context.Context, pass StudentPass) (int, error) {
	forumID, err := a.discovery.AnnouncementsForum(ctx, pass.CourseID)
	if err != nil {
		return 0, fmt.Errorf("announcements forum: %w", err)
	}
	if forumID == nil {
		return 0, nil
	}
	unread, err := a.discovery.UnreadThreads(ctx, *forumID, pass.UserID)
	if err != nil {
		return 0, fmt.Errorf("unread announcements: %w", err)
	}
	count := 0
	for _, th := range unread {
		if th.AuthorID == uuid.Nil {
			a.log.Warn("announcement author unknown, skipping read", "thread_id", th.ID)
			continue
		}
		if !a.passive(pass) {
			continue
		}
		if err := a.recorder.MarkThreadRead(ctx, th.ID, pass.UserID); err != nil {
			return count, fmt.Errorf("mark announcement read: %w", err)
		}
		author := th.AuthorID
		if err := a.record(ctx, pass, engagement.ActionAnnouncementRead, &th.ID, &author, "", nil); err != nil {
			return count, err
		}
		count++
		if a.AnnouncementReplies && a.active(pass) {
			if err := a.record(ctx, pass, engagement.ActionThreadReplied, &th.ID, &author, "", nil); err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}

func (a *StudentActor) passive(pass StudentPass) bool {
	return a.model.ShouldEngage(engagement.ClassPassive, pass.WindowPosition, pass.TotalWindows, pass.Params, pass.Diligence)
}

func (a *StudentActor) active(pass StudentPass) bool {
	return a.model.ShouldEngage(engagement.ClassActive, pass.WindowPosition, pass.TotalWindows, pass.Params, pass.Diligence)
}

func (a *StudentActor) record(ctx context.Context, pass StudentPass, actionType string, objectID, relatedUserID *uuid.UUID, outcome string, detail map[string]any) error {
	_, err := a.recorder.Record(ctx, ActionInput{
		TermID:         pass.TermID,
		WindowID:       pass.WindowID,
		WindowPosition: pass.WindowPosition,
		CourseID:       pass.CourseID,
		UserID:         pass.UserID,
		ActionType:     actionType,
		ObjectID:       objectID,
		RelatedUserID:  relatedUserID,
		TargetAt:       pass.TargetAt,
		Outcome:        outcome,
		Detail:         detail,
	})
	if err != nil {
		return fmt.Errorf("record %s: %w", actionType, err)
	}
	return nil
}
