package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mirajcandles/backend/apperrors"
	"github.com/mirajcandles/backend/models"
	"github.com/mirajcandles/backend/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LineItemInput is one validated checkout line. Price is the client-quoted
// price at purchase; it is snapshotted, not re-derived from the catalog.
type LineItemInput struct {
	ProductID string  `json:"productId" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,min=1"`
	Price     float64 `json:"price" binding:"gte=0"`
}

// AdminOrderView joins an order with its buyer for the back-office list.
type AdminOrderView struct {
	models.Order
	User *models.User `json:"user,omitempty"`
}

type OrderService struct {
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	logger    *zap.Logger
}

func NewOrderService(orderRepo repository.OrderRepository, userRepo repository.UserRepository, logger *zap.Logger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		logger:    logger,
	}
}

// buildOrder maps validated line items to an order entity. The total is
// the sum of line amounts, fixed here and never recomputed afterwards.
func buildOrder(userID uuid.UUID, items []LineItemInput, address models.ShippingAddress, paymentMethod string) (*models.Order, *apperrors.Error) {
	if len(items) == 0 {
		return nil, apperrors.Validation("At least one item is required")
	}

	orderItems := make([]models.OrderItem, 0, len(items))
	var total float64
	for _, item := range items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, apperrors.Validation("Invalid product ID in items")
		}
		if item.Quantity < 1 {
			return nil, apperrors.Validation("Item quantity must be at least 1")
		}
		if item.Price < 0 {
			return nil, apperrors.Validation("Item price cannot be negative")
		}
		orderItems = append(orderItems, models.OrderItem{
			ProductID: productID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
		total += item.Price * float64(item.Quantity)
	}

	return &models.Order{
		ID:              uuid.New(),
		UserID:          userID,
		Items:           orderItems,
		TotalAmount:     total,
		Status:          models.StatusPending,
		PaymentStatus:   models.PaymentUnpaid,
		PaymentMethod:   paymentMethod,
		ShippingAddress: address,
	}, nil
}

// Create persists a new order from a cart snapshot. No stock or sales
// mutation happens here; that is deferred to payment verification.
func (s *OrderService) Create(ctx context.Context, userID uuid.UUID, items []LineItemInput, address models.ShippingAddress, paymentMethod string) (*models.Order, *apperrors.Error) {
	order, appErr := buildOrder(userID, items, address, paymentMethod)
	if appErr != nil {
		return nil, appErr
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		s.logger.Error("failed to create order", zap.String("userId", userID.String()), zap.Error(err))
		return nil, apperrors.Internal("Failed to create order", err)
	}
	return order, nil
}

// UpdateStatus moves an order along the shipment axis. Transitions out of
// cancelled or delivered are rejected.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, newStatus models.OrderStatus) (*models.Order, *apperrors.Error) {
	order, appErr := s.findOrder(ctx, orderID)
	if appErr != nil {
		return nil, appErr
	}

	if !newStatus.Valid() {
		return nil, apperrors.Validation("Invalid order status")
	}
	if !order.Status.CanTransitionTo(newStatus) {
		return nil, apperrors.Validation("Illegal status transition from " + string(order.Status) + " to " + string(newStatus))
	}

	order.Status = newStatus
	if err := s.orderRepo.Update(ctx, order); err != nil {
		s.logger.Error("failed to update order status", zap.String("orderId", orderID), zap.Error(err))
		return nil, apperrors.Internal("Failed to update order status", err)
	}
	return order, nil
}

// UpdateDelivery patches tracking metadata without touching either status axis.
func (s *OrderService) UpdateDelivery(ctx context.Context, orderID, trackingLink, deliveryPhone string) (*models.Order, *apperrors.Error) {
	order, appErr := s.findOrder(ctx, orderID)
	if appErr != nil {
		return nil, appErr
	}

	order.TrackingLink = trackingLink
	order.DeliveryPhone = deliveryPhone
	if err := s.orderRepo.Update(ctx, order); err != nil {
		s.logger.Error("failed to update delivery details", zap.String("orderId", orderID), zap.Error(err))
		return nil, apperrors.Internal("Failed to update delivery details", err)
	}
	return order, nil
}

// GetUserOrders retrieves the authenticated buyer's orders, newest first.
func (s *OrderService) GetUserOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, *apperrors.Error) {
	orders, err := s.orderRepo.FindByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to fetch user orders", zap.String("userId", userID.String()), zap.Error(err))
		return nil, apperrors.Internal("Failed to fetch orders", err)
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

// GetAllOrders retrieves every order joined with its buyer (admin only).
func (s *OrderService) GetAllOrders(ctx context.Context) ([]AdminOrderView, *apperrors.Error) {
	orders, err := s.orderRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error("failed to fetch all orders", zap.Error(err))
		return nil, apperrors.Internal("Failed to fetch orders", err)
	}

	users := make(map[uuid.UUID]*models.User)
	views := make([]AdminOrderView, 0, len(orders))
	for _, order := range orders {
		user, seen := users[order.UserID]
		if !seen {
			user, err = s.userRepo.FindByID(ctx, order.UserID)
			if err != nil {
				// Deleted accounts leave the order listed without a buyer.
				user = nil
			}
			users[order.UserID] = user
		}
		views = append(views, AdminOrderView{Order: order, User: user})
	}
	return views, nil
}

func (s *OrderService) findOrder(ctx context.Context, orderID string) (*models.Order, *apperrors.Error) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, apperrors.NotFound("Order not found")
	}
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Order not found")
		}
		s.logger.Error("failed to fetch order", zap.String("orderId", orderID), zap.Error(err))
		return nil, apperrors.Internal("Failed to fetch order", err)
	}
	return order, nil
}
