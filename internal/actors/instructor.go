package actors

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/campussim-backend/internal/engagement"
	"github.com/yungbote/campussim-backend/internal/logger"
)

// InstructorPass is everything one instructor needs for one window in
// one course. Instructors run only after every student in the course has
// run for the window, so they observe this window's student threads.
type InstructorPass struct {
	TermID         uuid.UUID
	WindowID       uuid.UUID
	WindowPosition int
	TotalWindows   int
	PeriodIndex    int
	CourseID       uuid.UUID
	Section        int
	UserID         uuid.UUID
	Profile        engagement.InstructorProfile
	TargetAt       time.Time
}

// InstructorActor mirrors the student actor, driven by a small closed
// set of probability profiles instead of archetype decay.
type InstructorActor struct {
	model     *engagement.Model
	discovery ContentDiscovery
	recorder  ActionRecorder
	gateway   CourseGateway
	identity  IdentitySwitcher
	log       *logger.Logger
}

func NewInstructorActor(model *engagement.Model, discovery ContentDiscovery, recorder ActionRecorder, gateway CourseGateway, identity IdentitySwitcher, baseLog *logger.Logger) *InstructorActor {
	return &InstructorActor{
		model:     model,
		discovery: discovery,
		recorder:  recorder,
		gateway:   gateway,
		identity:  identity,
		log:       baseLog.With("actor", "instructor"),
	}
}

// Run executes the instructor sequence and returns the action count plus
// whether an announcement was posted. Students only see the announcement
// in later windows, through their own unread state.
func (a *InstructorActor) Run(ctx context.Context, pass InstructorPass) (int, bool, error) {
	count := 0
	announced := false
	err := a.identity.ActAs(ctx, pass.UserID, func(ctx context.Context) error {
		n, ann, err := a.run(ctx, pass)
		count = n
		announced = ann
		return err
	})
	return count, announced, err
}

func (a *InstructorActor) run(ctx context.Context, pass InstructorPass) (int, bool, error) {
	count := 0
	announced := false

	if a.model.Roll(pass.Profile.Announce) {
		n, ann, err := a.announce(ctx, pass)
		count += n
		announced = ann
		if err != nil {
			return count, announced, err
		}
	}

	activities, err := a.discovery.ListActivities(ctx, pass.CourseID, pass.Section)
	if err != nil {
		return count, announced, fmt.Errorf("list activities: %w", err)
	}
	for _, act := range activities {
		if act.Kind != "forum" {
			continue
		}
		n, err := a.runForum(ctx, pass, act)
		count += n
		if err != nil {
			return count, announced, err
		}
	}

	if a.model.Roll(pass.Profile.Grade) {
		n, err := a.runGrading(ctx, pass, activities)
		count += n
		if err != nil {
			return count, announced, err
		}
	}
	return count, announced, nil
}

// announce posts one discussion in the course's reserved announcements
// forum. Courses without one are skipped silently.
func (a *InstructorActor) announce(ctx context.Context, pass InstructorPass) (int, bool, error) {
	forumID, err := a.discovery.AnnouncementsForum(ctx, pass.CourseID)
	if err != nil {
		return 0, false, fmt.Errorf("announcements forum: %w", err)
	}
	if forumID == nil {
		return 0, false, nil
	}
	subject, body := fillerAnnouncement(pass.PeriodIndex)
	th, err := a.gateway.PostThread(ctx, *forumID, pass.CourseID, pass.UserID, subject, body, pass.TargetAt)
	if err != nil {
		return 0, false, fmt.Errorf("post announcement: %w", err)
	}
	if err := a.record(ctx, pass, engagement.ActionAnnouncementPosted, &th.ID, nil, "",
		map[string]any{"subject": subject}); err != nil {
		return 0, false, err
	}
	return 1, true, nil
}

// runForum walks every unread thread (no cap for instructors) with a
// per-thread read roll, then an independent reply roll per thread read.
func (a *InstructorActor) runForum(ctx context.Context, pass InstructorPass, act ActivityRef) (int, error) {
	threads, err := a.discovery.UnreadThreads(ctx, act.ID, pass.UserID)
	if err != nil {
		return 0, fmt.Errorf("unread threads: %w", err)
	}
	count := 0
	for _, th := range threads {
		if th.AuthorID == uuid.Nil {
			a.log.Warn("thread author unknown, skipping read/reply", "thread_id", th.ID, "forum_id", act.ID)
			continue
		}
		if !a.model.Roll(pass.Profile.ReadThread) {
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
		if a.model.Roll(pass.Profile.ReplyPerRead) {
			if err := a.record(ctx, pass, engagement.ActionThreadReplied, &th.ID, &author, "", nil); err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}

// runGrading grades every submitted-but-ungraded submission across the
// section's assignments, then views the gradebook once, but only if at
// least one grading action actually happened. A successful grade roll
// over zero submissions emits nothing.
func (a *InstructorActor) runGrading(ctx context.Context, pass InstructorPass, activities []ActivityRef) (int, error) {
	count := 0
	graded := 0
	for _, act := range activities {
		if act.Kind != "assignment" {
			continue
		}
		submissions, err := a.gateway.UngradedSubmissions(ctx, act.ID)
		if err != nil {
			return count, fmt.Errorf("ungraded submissions: %w", err)
		}
		for _, sub := range submissions {
			score := gradeScore(sub.ID)
			if err := a.gateway.GradeSubmission(ctx, sub.ID, pass.UserID, score, pass.TargetAt); err != nil {
				return count, fmt.Errorf("grade submission: %w", err)
			}
			student := sub.UserID
			subID := sub.ID
			if err := a.record(ctx, pass, engagement.ActionSubmissionGraded, &subID, &student, "",
				map[string]any{"score": score}); err != nil {
				return count, err
			}
			count++
			graded++
		}
	}
	if graded > 0 {
		if err := a.record(ctx, pass, engagement.ActionGradebookViewed, nil, nil, "", nil); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// gradeScore derives a stable filler score from the submission identity.
func gradeScore(id uuid.UUID) float64 {
	return 50 + float64(int(id[0])%51)
}

func (a *InstructorActor) record(ctx context.Context, pass InstructorPass, actionType string, objectID, relatedUserID *uuid.UUID, outcome string, detail map[string]any) error {
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
