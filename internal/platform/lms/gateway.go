package lms

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/campussim-backend/internal/actors"
	"github.com/yungbote/campussim-backend/internal/logger"
	"github.com/yungbote/campussim-backend/internal/repos"
	"github.com/yungbote/campussim-backend/internal/types"
)

// Gateway is the default CourseGateway binding for the platform
// mutations actors perform beyond the run log.
type Gateway struct {
	db          *gorm.DB
	log         *logger.Logger
	discussions repos.DiscussionRepo
	submissions repos.SubmissionRepo
}

func NewGateway(db *gorm.DB, baseLog *logger.Logger, discussions repos.DiscussionRepo, submissions repos.SubmissionRepo) *Gateway {
	return &Gateway{
		db:          db,
		log:         baseLog.With("platform", "lms.Gateway"),
		discussions: discussions,
		submissions: submissions,
	}
}

func (g *Gateway) PostThread(ctx context.Context, forumID, courseID, authorID uuid.UUID, subject, body string, at time.Time) (actors.ThreadRef, error) {
	author := authorID
	thread := &types.DiscussionThread{
		ForumID:   forumID,
		CourseID:  courseID,
		AuthorID:  &author,
		Subject:   subject,
		Body:      body,
		CreatedAt: at,
	}
	created, err := g.discussions.CreateThread(ctx, nil, thread)
	if err != nil {
		return actors.ThreadRef{}, fmt.Errorf("create thread: %w", err)
	}
	return actors.ThreadRef{ID: created.ID, AuthorID: authorID, CreatedAt: created.CreatedAt}, nil
}

func (g *Gateway) SubmitAssignment(ctx context.Context, activityID, courseID, userID uuid.UUID, at time.Time) (uuid.UUID, error) {
	sub := &types.AssignmentSubmission{
		ActivityID:  activityID,
		CourseID:    courseID,
		UserID:      userID,
		SubmittedAt: at,
	}
	created, err := g.submissions.Create(ctx, nil, sub)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create submission: %w", err)
	}
	return created.ID, nil
}

func (g *Gateway) UngradedSubmissions(ctx context.Context, activityID uuid.UUID) ([]actors.SubmissionRef, error) {
	rows, err := g.submissions.ListUngradedByActivity(ctx, nil, activityID)
	if err != nil {
		return nil, fmt.Errorf("list ungraded submissions: %w", err)
	}
	out := make([]actors.SubmissionRef, 0, len(rows))
	for _, row := range rows {
		out = append(out, actors.SubmissionRef{ID: row.ID, UserID: row.UserID})
	}
	return out, nil
}

func (g *Gateway) GradeSubmission(ctx context.Context, submissionID, graderID uuid.UUID, score float64, at time.Time) error {
	return g.submissions.MarkGraded(ctx, nil, submissionID, graderID, score, at)
}
