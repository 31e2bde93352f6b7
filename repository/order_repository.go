package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mirajcandles/backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrIllegalTransition is returned when an order's status axes forbid the
// requested mutation (verifying a cancelled order, for example).
var ErrIllegalTransition = errors.New("illegal order status transition")

// FulfillFunc applies the stock and sales mutations for a freshly paid
// order. It runs inside the same transaction as the paid flip; returning an
// error rolls back the flip so the verification can be retried.
type FulfillFunc func(ctx context.Context, order *models.Order, products ProductRepository) error

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	FindAll(ctx context.Context) ([]models.Order, error)
	Update(ctx context.Context, order *models.Order) error
	// MarkPaid flips an order to shipped/paid, attaches delivery info and
	// runs fulfill, all in one transaction. The locked row is the
	// serialization point for concurrent verifications of the same order:
	// exactly one caller observes performed == true. An already paid order
	// is a no-op; a status that cannot move to shipped (cancelled,
	// delivered) returns ErrIllegalTransition.
	MarkPaid(ctx context.Context, id uuid.UUID, trackingLink, deliveryPhone string, fulfill FulfillFunc) (order *models.Order, performed bool, err error)
	// HasQualifyingPurchase reports whether the user has a paid order in
	// shipped or delivered state containing the product.
	HasQualifyingPurchase(ctx context.Context, userID, productID uuid.UUID) (bool, error)
}

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormOrderRepository) FindAll(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormOrderRepository) Update(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

func (r *GormOrderRepository) MarkPaid(ctx context.Context, id uuid.UUID, trackingLink, deliveryPhone string, fulfill FulfillFunc) (*models.Order, bool, error) {
	var order models.Order
	performed := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&order).Error; err != nil {
			return err
		}

		if order.PaymentStatus == models.PaymentPaid {
			return tx.Preload("Items").Where("id = ?", id).First(&order).Error
		}
		if !order.Status.CanTransitionTo(models.StatusShipped) ||
			!order.PaymentStatus.CanTransitionTo(models.PaymentPaid) {
			return ErrIllegalTransition
		}

		if err := tx.Model(&models.Order{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":         models.StatusShipped,
				"payment_status": models.PaymentPaid,
				"tracking_link":  trackingLink,
				"delivery_phone": deliveryPhone,
				"updated_at":     time.Now(),
			}).Error; err != nil {
			return err
		}
		if err := tx.Preload("Items").Where("id = ?", id).First(&order).Error; err != nil {
			return err
		}

		if fulfill != nil {
			if err := fulfill(ctx, &order, NewGormProductRepository(tx)); err != nil {
				return err
			}
		}
		performed = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &order, performed, nil
}

func (r *GormOrderRepository) HasQualifyingPurchase(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Where("orders.user_id = ?", userID).
		Where("order_items.product_id = ?", productID).
		Where("orders.status IN ?", []models.OrderStatus{models.StatusShipped, models.StatusDelivered}).
		Where("orders.payment_status = ?", models.PaymentPaid).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
