package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/campussim-backend/internal/logger"
	"github.com/yungbote/campussim-backend/internal/types"
)

type LearnerProfileRepo interface {
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.LearnerProfile, error)
	CreateIfAbsent(ctx context.Context, tx *gorm.DB, profile *types.LearnerProfile) (*types.LearnerProfile, error)
}

type learnerProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLearnerProfileRepo(db *gorm.DB, baseLog *logger.Logger) LearnerProfileRepo {
	return &learnerProfileRepo{
		db:  db,
		log: baseLog.With("repo", "LearnerProfileRepo"),
	}
}

func (r *learnerProfileRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.LearnerProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var p types.LearnerProfile
	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Limit(1).
		Find(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == uuid.Nil {
		return nil, nil
	}
	return &p, nil
}

// CreateIfAbsent inserts the profile unless the user already has one, in
// which case the existing row wins. The diligence scalar must never be
// regenerated for an existing student.
func (r *learnerProfileRepo) CreateIfAbsent(ctx context.Context, tx *gorm.DB, profile *types.LearnerProfile) (*types.LearnerProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(profile).Error; err != nil {
		return nil, err
	}
	return r.GetByUserID(ctx, tx, profile.UserID)
}
