package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/campussim-backend/internal/logger"
	"github.com/yungbote/campussim-backend/internal/types"
)

type TermRepo interface {
	Create(ctx context.Context, tx *gorm.DB, term *types.Term) (*types.Term, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Term, error)
	GetByAnchorAndProfile(ctx context.Context, tx *gorm.DB, weekAnchor, profileKey string) (*types.Term, error)
	ListActiveOldestFirst(ctx context.Context, tx *gorm.DB) ([]*types.Term, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Term, error)
	ActivateDue(ctx context.Context, tx *gorm.DB, now time.Time) (int64, error)
	SetStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error
}

type termRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTermRepo(db *gorm.DB, baseLog *logger.Logger) TermRepo {
	return &termRepo{
		db:  db,
		log: baseLog.With("repo", "TermRepo"),
	}
}

func (r *termRepo) Create(ctx context.Context, tx *gorm.DB, term *types.Term) (*types.Term, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(term).Error; err != nil {
		return nil, err
	}
	return term, nil
}

func (r *termRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Term, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var term types.Term
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&term).Error
	if err != nil {
		return nil, err
	}
	if term.ID == uuid.Nil {
		return nil, nil
	}
	return &term, nil
}

func (r *termRepo) GetByAnchorAndProfile(ctx context.Context, tx *gorm.DB, weekAnchor, profileKey string) (*types.Term, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var term types.Term
	err := transaction.WithContext(ctx).
		Where("week_anchor = ? AND profile_key = ?", weekAnchor, profileKey).
		Limit(1).
		Find(&term).Error
	if err != nil {
		return nil, err
	}
	if term.ID == uuid.Nil {
		return nil, nil
	}
	return &term, nil
}

func (r *termRepo) ListActiveOldestFirst(ctx context.Context, tx *gorm.DB) ([]*types.Term, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Term
	if err := transaction.WithContext(ctx).
		Where("status = ?", types.TermStatusActive).
		Order("start_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *termRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Term, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Term
	if err := transaction.WithContext(ctx).
		Order("start_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ActivateDue flips every pending term whose start has elapsed to active.
// Idempotent: already-active terms never match the predicate.
func (r *termRepo) ActivateDue(ctx context.Context, tx *gorm.DB, now time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.Term{}).
		Where("status = ? AND start_at <= ?", types.TermStatusPending, now).
		Updates(map[string]interface{}{"status": types.TermStatusActive, "updated_at": now})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *termRepo) SetStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Term{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()}).Error
}
