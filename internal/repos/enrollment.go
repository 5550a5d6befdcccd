package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/campussim-backend/internal/logger"
	"github.com/yungbote/campussim-backend/internal/types"
)

type EnrollmentRepo interface {
	CreateIfAbsent(ctx context.Context, tx *gorm.DB, enrollment *types.Enrollment) error
	ListByCourseRole(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, role string) ([]*types.Enrollment, error)
}

type enrollmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	return &enrollmentRepo{
		db:  db,
		log: baseLog.With("repo", "EnrollmentRepo"),
	}
}

// CreateIfAbsent inserts the enrollment unless the (course, user) pair
// already exists; re-provisioning the same pool is a no-op.
func (r *enrollmentRepo) CreateIfAbsent(ctx context.Context, tx *gorm.DB, enrollment *types.Enrollment) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "course_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(enrollment).Error
}

// ListByCourseRole returns a course's enrollments for one role in stable
// (creation) order, so user fan-out order is deterministic.
func (r *enrollmentRepo) ListByCourseRole(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, role string) ([]*types.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Enrollment
	if err := transaction.WithContext(ctx).
		Where("course_id = ? AND role = ?", courseID, role).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
