package lms

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/campussim-backend/internal/actors"
	"github.com/yungbote/campussim-backend/internal/logger"
	"github.com/yungbote/campussim-backend/internal/repos"
)

// Discovery is the default in-database ContentDiscovery binding.
type Discovery struct {
	db          *gorm.DB
	log         *logger.Logger
	courses     repos.CourseRepo
	activities  repos.ActivityRepo
	discussions repos.DiscussionRepo
}

func NewDiscovery(db *gorm.DB, baseLog *logger.Logger, courses repos.CourseRepo, activities repos.ActivityRepo, discussions repos.DiscussionRepo) *Discovery {
	return &Discovery{
		db:          db,
		log:         baseLog.With("platform", "lms.Discovery"),
		courses:     courses,
		activities:  activities,
		discussions: discussions,
	}
}

func (d *Discovery) ListActivities(ctx context.Context, courseID uuid.UUID, section int) ([]actors.ActivityRef, error) {
	rows, err := d.activities.ListBySection(ctx, nil, courseID, section)
	if err != nil {
		return nil, fmt.Errorf("list section activities: %w", err)
	}
	out := make([]actors.ActivityRef, 0, len(rows))
	for _, row := range rows {
		out = append(out, actors.ActivityRef{
			ID:    row.ID,
			Kind:  row.Kind,
			Title: row.Title,
			DueAt: row.DueAt,
		})
	}
	return out, nil
}

func (d *Discovery) UnreadThreads(ctx context.Context, forumID, userID uuid.UUID) ([]actors.ThreadRef, error) {
	rows, err := d.discussions.ListUnreadForUser(ctx, nil, forumID, userID)
	if err != nil {
		return nil, fmt.Errorf("list unread threads: %w", err)
	}
	out := make([]actors.ThreadRef, 0, len(rows))
	for _, row := range rows {
		ref := actors.ThreadRef{ID: row.ID, CreatedAt: row.CreatedAt}
		if row.AuthorID != nil {
			ref.AuthorID = *row.AuthorID
		}
		out = append(out, ref)
	}
	return out, nil
}

func (d *Discovery) AnnouncementsForum(ctx context.Context, courseID uuid.UUID) (*uuid.UUID, error) {
	course, err := d.courses.GetByID(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if course == nil {
		return nil, nil
	}
	return course.AnnouncementsForumID, nil
}
