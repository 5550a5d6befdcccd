package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/campussim-backend/internal/logger"
	"github.com/yungbote/campussim-backend/internal/types"
)

type WindowRepo interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, windows []*types.TermWindow) ([]*types.TermWindow, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.TermWindow, error)
	ListByTerm(ctx context.Context, tx *gorm.DB, termID uuid.UUID) ([]*types.TermWindow, error)
	ListPendingDue(ctx context.Context, tx *gorm.DB, termID uuid.UUID, now time.Time) ([]*types.TermWindow, error)
	ListForceRerun(ctx context.Context, tx *gorm.DB, termID uuid.UUID) ([]*types.TermWindow, error)
	CountEarlier(ctx context.Context, tx *gorm.DB, termID uuid.UUID, scheduledAt time.Time) (int64, error)
	CountByStatus(ctx context.Context, tx *gorm.DB, termID uuid.UUID, status string) (int64, error)
	CountByTerm(ctx context.Context, tx *gorm.DB, termID uuid.UUID) (int64, error)
	MarkComplete(ctx context.Context, tx *gorm.DB, id uuid.UUID, at time.Time) error
	SetForceRerun(ctx context.Context, tx *gorm.DB, id uuid.UUID, force bool) error
}

type windowRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWindowRepo(db *gorm.DB, baseLog *logger.Logger) WindowRepo {
	return &windowRepo{
		db:  db,
		log: baseLog.With("repo", "WindowRepo"),
	}
}

func (r *windowRepo) CreateBatch(ctx context.Context, tx *gorm.DB, windows []*types.TermWindow) ([]*types.TermWindow, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(windows) == 0 {
		return []*types.TermWindow{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&windows).Error; err != nil {
		return nil, err
	}
	return windows, nil
}

func (r *windowRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.TermWindow, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var w types.TermWindow
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&w).Error
	if err != nil {
		return nil, err
	}
	if w.ID == uuid.Nil {
		return nil, nil
	}
	return &w, nil
}

func (r *windowRepo) ListByTerm(ctx context.Context, tx *gorm.DB, termID uuid.UUID) ([]*types.TermWindow, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.TermWindow
	if err := transaction.WithContext(ctx).
		Where("term_id = ?", termID).
		Order("scheduled_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListPendingDue returns pending windows whose scheduled time has elapsed,
// oldest first. The ascending order is what makes backfill deterministic.
func (r *windowRepo) ListPendingDue(ctx context.Context, tx *gorm.DB, termID uuid.UUID, now time.Time) ([]*types.TermWindow, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.TermWindow
	if err := transaction.WithContext(ctx).
		Where("term_id = ? AND status = ? AND scheduled_at <= ?", termID, types.WindowStatusPending, now).
		Order("scheduled_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListForceRerun returns windows flagged for a forced re-run regardless of
// status or schedule. Only consulted in test mode.
func (r *windowRepo) ListForceRerun(ctx context.Context, tx *gorm.DB, termID uuid.UUID) ([]*types.TermWindow, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.TermWindow
	if err := transaction.WithContext(ctx).
		Where("term_id = ? AND force_rerun = ?", termID, true).
		Order("scheduled_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// CountEarlier counts sibling windows with strictly earlier scheduled
// time. This is the canonical derivation of window position and is always
// recomputed, never cached.
func (r *windowRepo) CountEarlier(ctx context.Context, tx *gorm.DB, termID uuid.UUID, scheduledAt time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var n int64
	if err := transaction.WithContext(ctx).
		Model(&types.TermWindow{}).
		Where("term_id = ? AND scheduled_at < ?", termID, scheduledAt).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *windowRepo) CountByStatus(ctx context.Context, tx *gorm.DB, termID uuid.UUID, status string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var n int64
	if err := transaction.WithContext(ctx).
		Model(&types.TermWindow{}).
		Where("term_id = ? AND status = ?", termID, status).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *windowRepo) CountByTerm(ctx context.Context, tx *gorm.DB, termID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var n int64
	if err := transaction.WithContext(ctx).
		Model(&types.TermWindow{}).
		Where("term_id = ?", termID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// MarkComplete is idempotent: re-marking a complete window rewrites the
// same status and clears force_rerun again.
func (r *windowRepo) MarkComplete(ctx context.Context, tx *gorm.DB, id uuid.UUID, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.TermWindow{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       types.WindowStatusComplete,
			"force_rerun":  false,
			"completed_at": at,
			"updated_at":   at,
		}).Error
}

func (r *windowRepo) SetForceRerun(ctx context.Context, tx *gorm.DB, id uuid.UUID, force bool) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.TermWindow{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"force_rerun": force, "updated_at": time.Now()}).Error
}
