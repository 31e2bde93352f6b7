package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/mirajcandles/backend/models"
	"gorm.io/gorm"
)

// UserRepository resolves buyer contact details and enumerates admin
// accounts for broadcast notifications.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindAdmins(ctx context.Context) ([]models.User, error)
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) FindAdmins(ctx context.Context) ([]models.User, error) {
	var admins []models.User
	if err := r.db.WithContext(ctx).
		Where("role = ?", models.RoleAdmin).
		Find(&admins).Error; err != nil {
		return nil, err
	}
	return admins, nil
}
