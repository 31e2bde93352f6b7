package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mirajcandles/backend/models"
	"gorm.io/gorm"
)

// ProductRepository is the order core's view of the catalog. FindByID
// returns (nil, nil) for a missing product: callers in the fulfillment
// path must tolerate products deleted after the order was placed.
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Save(ctx context.Context, product *models.Product) error
}

type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) ProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormProductRepository) Save(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}
