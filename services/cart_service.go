package services

import (
	"context"

	"github.com/mirajcandles/backend/apperrors"
	"github.com/mirajcandles/backend/models"
	"github.com/mirajcandles/backend/repository"
	"go.uber.org/zap"
)

type CartService struct {
	cartRepo repository.CartRepository
	logger   *zap.Logger
}

func NewCartService(cartRepo repository.CartRepository, logger *zap.Logger) *CartService {
	return &CartService{
		cartRepo: cartRepo,
		logger:   logger,
	}
}

// GetCart returns the user's cart, or an empty one if none exists yet.
func (s *CartService) GetCart(ctx context.Context, userID string) (*models.Cart, *apperrors.Error) {
	cart, err := s.cartRepo.GetCart(ctx, userID)
	if err != nil {
		s.logger.Error("failed to fetch cart", zap.String("userId", userID), zap.Error(err))
		return nil, apperrors.Internal("Failed to fetch cart", err)
	}
	if cart == nil {
		cart = &models.Cart{UserID: userID, Items: []models.CartItem{}}
	}
	return cart, nil
}

// AddItem merges quantity into an existing line or appends a new one.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*models.Cart, *apperrors.Error) {
	if productID == "" {
		return nil, apperrors.Validation("Product ID is required")
	}
	if quantity < 1 {
		return nil, apperrors.Validation("Quantity must be at least 1")
	}

	cart, appErr := s.GetCart(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, models.CartItem{ProductID: productID, Quantity: quantity})
	}

	return s.save(ctx, cart)
}

// UpdateQuantity sets the quantity on an existing cart line.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*models.Cart, *apperrors.Error) {
	if quantity < 1 {
		return nil, apperrors.Validation("Quantity must be at least 1")
	}

	cart, appErr := s.GetCart(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}

	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity = quantity
			return s.save(ctx, cart)
		}
	}
	return nil, apperrors.NotFound("Item not found in cart")
}

// RemoveItem drops a line from the cart; removing an absent line is a no-op.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*models.Cart, *apperrors.Error) {
	cart, appErr := s.GetCart(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}

	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	cart.Items = kept

	return s.save(ctx, cart)
}

// ClearCart deletes the cart entirely.
func (s *CartService) ClearCart(ctx context.Context, userID string) *apperrors.Error {
	if err := s.cartRepo.DeleteCart(ctx, userID); err != nil {
		s.logger.Error("failed to clear cart", zap.String("userId", userID), zap.Error(err))
		return apperrors.Internal("Failed to clear cart", err)
	}
	return nil
}

func (s *CartService) save(ctx context.Context, cart *models.Cart) (*models.Cart, *apperrors.Error) {
	if err := s.cartRepo.SaveCart(ctx, cart); err != nil {
		s.logger.Error("failed to save cart", zap.String("userId", cart.UserID), zap.Error(err))
		return nil, apperrors.Internal("Failed to update cart", err)
	}
	return cart, nil
}
