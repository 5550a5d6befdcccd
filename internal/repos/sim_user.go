package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/campussim-backend/internal/logger"
	"github.com/yungbote/campussim-backend/internal/types"
)

type SimUserRepo interface {
	Create(ctx context.Context, tx *gorm.DB, user *types.SimUser) (*types.SimUser, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.SimUser, error)
	GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*types.SimUser, error)
}

type simUserRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSimUserRepo(db *gorm.DB, baseLog *logger.Logger) SimUserRepo {
	return &simUserRepo{
		db:  db,
		log: baseLog.With("repo", "SimUserRepo"),
	}
}

func (r *simUserRepo) Create(ctx context.Context, tx *gorm.DB, user *types.SimUser) (*types.SimUser, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *simUserRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.SimUser, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var u types.SimUser
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&u).Error
	if err != nil {
		return nil, err
	}
	if u.ID == uuid.Nil {
		return nil, nil
	}
	return &u, nil
}

func (r *simUserRepo) GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*types.SimUser, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var u types.SimUser
	err := transaction.WithContext(ctx).
		Where("username = ?", username).
		Limit(1).
		Find(&u).Error
	if err != nil {
		return nil, err
	}
	if u.ID == uuid.Nil {
		return nil, nil
	}
	return &u, nil
}
