package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/campussim-backend/internal/logger"
	"github.com/yungbote/campussim-backend/internal/types"
)

type SubmissionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, submission *types.AssignmentSubmission) (*types.AssignmentSubmission, error)
	ListUngradedByActivity(ctx context.Context, tx *gorm.DB, activityID uuid.UUID) ([]*types.AssignmentSubmission, error)
	MarkGraded(ctx context.Context, tx *gorm.DB, id, graderID uuid.UUID, score float64, at time.Time) error
}

type submissionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubmissionRepo(db *gorm.DB, baseLog *logger.Logger) SubmissionRepo {
	return &submissionRepo{
		db:  db,
		log: baseLog.With("repo", "SubmissionRepo"),
	}
}

func (r *submissionRepo) Create(ctx context.Context, tx *gorm.DB, submission *types.AssignmentSubmission) (*types.AssignmentSubmission, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(submission).Error; err != nil {
		return nil, err
	}
	return submission, nil
}

// ListUngradedByActivity returns submitted-but-ungraded submissions in
// submission order.
func (r *submissionRepo) ListUngradedByActivity(ctx context.Context, tx *gorm.DB, activityID uuid.UUID) ([]*types.AssignmentSubmission, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.AssignmentSubmission
	if err := transaction.WithContext(ctx).
		Where("activity_id = ? AND graded_at IS NULL", activityID).
		Order("submitted_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *submissionRepo) MarkGraded(ctx context.Context, tx *gorm.DB, id, graderID uuid.UUID, score float64, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.AssignmentSubmission{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"graded_at": at,
			"graded_by": graderID,
			"score":     score,
		}).Error
}
