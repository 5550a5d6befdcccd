package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/campussim-backend/internal/logger"
	"github.com/yungbote/campussim-backend/internal/types"
)

type CourseRepo interface {
	Create(ctx context.Context, tx *gorm.DB, course *types.Course) (*types.Course, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Course, error)
	GetByTermAndCode(ctx context.Context, tx *gorm.DB, termID uuid.UUID, code string) (*types.Course, error)
	ListByTerm(ctx context.Context, tx *gorm.DB, termID uuid.UUID) ([]*types.Course, error)
	SetAnnouncementsForum(ctx context.Context, tx *gorm.DB, courseID, forumID uuid.UUID) error
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return &courseRepo{
		db:  db,
		log: baseLog.With("repo", "CourseRepo"),
	}
}

func (r *courseRepo) Create(ctx context.Context, tx *gorm.DB, course *types.Course) (*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(course).Error; err != nil {
		return nil, err
	}
	return course, nil
}

func (r *courseRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var c types.Course
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&c).Error
	if err != nil {
		return nil, err
	}
	if c.ID == uuid.Nil {
		return nil, nil
	}
	return &c, nil
}

func (r *courseRepo) GetByTermAndCode(ctx context.Context, tx *gorm.DB, termID uuid.UUID, code string) (*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var c types.Course
	err := transaction.WithContext(ctx).
		Where("term_id = ? AND code = ?", termID, code).
		Limit(1).
		Find(&c).Error
	if err != nil {
		return nil, err
	}
	if c.ID == uuid.Nil {
		return nil, nil
	}
	return &c, nil
}

func (r *courseRepo) ListByTerm(ctx context.Context, tx *gorm.DB, termID uuid.UUID) ([]*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Course
	if err := transaction.WithContext(ctx).
		Where("term_id = ?", termID).
		Order("code ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *courseRepo) SetAnnouncementsForum(ctx context.Context, tx *gorm.DB, courseID, forumID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Course{}).
		Where("id = ?", courseID).
		Update("announcements_forum_id", forumID).Error
}
