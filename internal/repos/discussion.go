package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/campussim-backend/internal/logger"
	"github.com/yungbote/campussim-backend/internal/types"
)

type DiscussionRepo interface {
	CreateThread(ctx context.Context, tx *gorm.DB, thread *types.DiscussionThread) (*types.DiscussionThread, error)
	GetThread(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.DiscussionThread, error)
	ListUnreadForUser(ctx context.Context, tx *gorm.DB, forumID, userID uuid.UUID) ([]*types.DiscussionThread, error)
	MarkRead(ctx context.Context, tx *gorm.DB, threadID, userID uuid.UUID, at time.Time) error
	CountByForum(ctx context.Context, tx *gorm.DB, forumID uuid.UUID) (int64, error)
}

type discussionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDiscussionRepo(db *gorm.DB, baseLog *logger.Logger) DiscussionRepo {
	return &discussionRepo{
		db:  db,
		log: baseLog.With("repo", "DiscussionRepo"),
	}
}

func (r *discussionRepo) CreateThread(ctx context.Context, tx *gorm.DB, thread *types.DiscussionThread) (*types.DiscussionThread, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(thread).Error; err != nil {
		return nil, err
	}
	return thread, nil
}

func (r *discussionRepo) GetThread(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.DiscussionThread, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var t types.DiscussionThread
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&t).Error
	if err != nil {
		return nil, err
	}
	if t.ID == uuid.Nil {
		return nil, nil
	}
	return &t, nil
}

// ListUnreadForUser returns the forum's threads this user has not read,
// oldest-created first. The actor's unread-thread processing order
// depends on this ordering.
func (r *discussionRepo) ListUnreadForUser(ctx context.Context, tx *gorm.DB, forumID, userID uuid.UUID) ([]*types.DiscussionThread, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.DiscussionThread
	if err := transaction.WithContext(ctx).
		Where("forum_id = ?", forumID).
		Where("id NOT IN (?)", transaction.
			Model(&types.ThreadRead{}).
			Select("thread_id").
			Where("user_id = ?", userID)).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// MarkRead is idempotent via the (thread, user) unique pair.
func (r *discussionRepo) MarkRead(ctx context.Context, tx *gorm.DB, threadID, userID uuid.UUID, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	read := &types.ThreadRead{ThreadID: threadID, UserID: userID, ReadAt: at}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "thread_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(read).Error
}

func (r *discussionRepo) CountByForum(ctx context.Context, tx *gorm.DB, forumID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var n int64
	if err := transaction.WithContext(ctx).
		Model(&types.DiscussionThread{}).
		Where("forum_id = ?", forumID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
