package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/florascan-inc/florascan/internal/domain/user"
	"github.com/florascan-inc/florascan/internal/infrastructure/persistence/models"
	"github.com/florascan-inc/florascan/internal/shared/db"
	"github.com/florascan-inc/florascan/internal/shared/logger"
)

type UserRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewUserRepository(database *gorm.DB, log logger.Interface) user.Repository {
	return &UserRepositoryImpl{
		db:     database,
		logger: log,
	}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, u *user.User) error {
	model := r.toModel(u)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create user", "error", err, "email", u.Email())
		return fmt.Errorf("failed to create user: %w", err)
	}

	if err := u.SetID(model.ID); err != nil {
		return err
	}

	r.logger.Infow("user created successfully", "user_id", model.ID, "email", u.Email())
	return nil
}

func (r *UserRepositoryImpl) GetByID(ctx context.Context, id uint) (*user.User, error) {
	var model models.UserModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get user by ID", "error", err, "user_id", id)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return r.toEntity(&model)
}

func (r *UserRepositoryImpl) GetByIDs(ctx context.Context, ids []uint) ([]*user.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var userModels []*models.UserModel
	if err := db.GetTxFromContext(ctx, r.db).Where("id IN ?", ids).Find(&userModels).Error; err != nil {
		r.logger.Errorw("failed to get users by IDs", "error", err, "count", len(ids))
		return nil, fmt.Errorf("failed to get users by IDs: %w", err)
	}

	users := make([]*user.User, 0, len(userModels))
	for _, model := range userModels {
		u, err := r.toEntity(model)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (r *UserRepositoryImpl) toModel(u *user.User) *models.UserModel {
	return &models.UserModel{
		ID:        u.ID(),
		Email:     u.Email(),
		Name:      u.Name(),
		CreatedAt: u.CreatedAt(),
		UpdatedAt: u.UpdatedAt(),
	}
}

func (r *UserRepositoryImpl) toEntity(model *models.UserModel) (*user.User, error) {
	return user.ReconstructUser(model.ID, model.Email, model.Name, model.CreatedAt, model.UpdatedAt)
}
