package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/campussim-backend/internal/logger"
	"github.com/yungbote/campussim-backend/internal/types"
)

type ActivityRepo interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, activities []*types.CourseActivity) ([]*types.CourseActivity, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.CourseActivity, error)
	ListBySection(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, section int) ([]*types.CourseActivity, error)
	CountByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (int64, error)
}

type activityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActivityRepo(db *gorm.DB, baseLog *logger.Logger) ActivityRepo {
	return &activityRepo{
		db:  db,
		log: baseLog.With("repo", "ActivityRepo"),
	}
}

func (r *activityRepo) CreateBatch(ctx context.Context, tx *gorm.DB, activities []*types.CourseActivity) ([]*types.CourseActivity, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(activities) == 0 {
		return []*types.CourseActivity{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

func (r *activityRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.CourseActivity, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var a types.CourseActivity
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&a).Error
	if err != nil {
		return nil, err
	}
	if a.ID == uuid.Nil {
		return nil, nil
	}
	return &a, nil
}

// ListBySection returns the section's activities in declared order, which
// is the order actors process them.
func (r *activityRepo) ListBySection(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, section int) ([]*types.CourseActivity, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.CourseActivity
	if err := transaction.WithContext(ctx).
		Where("course_id = ? AND section = ?", courseID, section).
		Order("ordinal ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *activityRepo) CountByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var n int64
	if err := transaction.WithContext(ctx).
		Model(&types.CourseActivity{}).
		Where("course_id = ?", courseID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
