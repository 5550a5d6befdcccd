package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/campussim-backend/internal/logger"
	"github.com/yungbote/campussim-backend/internal/types"
)

type RunLogRepo interface {
	Append(ctx context.Context, tx *gorm.DB, entry *types.RunLogEntry) (*types.RunLogEntry, error)
	ListByWindow(ctx context.Context, tx *gorm.DB, windowID uuid.UUID) ([]*types.RunLogEntry, error)
	ListByWindowAndUser(ctx context.Context, tx *gorm.DB, windowID, userID uuid.UUID) ([]*types.RunLogEntry, error)
	CountByTerm(ctx context.Context, tx *gorm.DB, termID uuid.UUID) (int64, error)
}

type runLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRunLogRepo(db *gorm.DB, baseLog *logger.Logger) RunLogRepo {
	return &runLogRepo{
		db:  db,
		log: baseLog.With("repo", "RunLogRepo"),
	}
}

// Append inserts one ground-truth row. The run log is append-only; there
// is deliberately no update or delete on this repo.
func (r *runLogRepo) Append(ctx context.Context, tx *gorm.DB, entry *types.RunLogEntry) (*types.RunLogEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *runLogRepo) ListByWindow(ctx context.Context, tx *gorm.DB, windowID uuid.UUID) ([]*types.RunLogEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.RunLogEntry
	if err := transaction.WithContext(ctx).
		Where("window_id = ?", windowID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *runLogRepo) ListByWindowAndUser(ctx context.Context, tx *gorm.DB, windowID, userID uuid.UUID) ([]*types.RunLogEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.RunLogEntry
	if err := transaction.WithContext(ctx).
		Where("window_id = ? AND user_id = ?", windowID, userID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *runLogRepo) CountByTerm(ctx context.Context, tx *gorm.DB, termID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var n int64
	if err := transaction.WithContext(ctx).
		Model(&types.RunLogEntry{}).
		Where("term_id = ?", termID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
