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

type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	logger      *zap.Logger
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// AddReview appends a review after the purchase gate: the user must hold a
// paid order in shipped or delivered state containing this product, and
// may review each product once. The product rating is recomputed as the
// plain arithmetic mean over all reviews.
func (s *ReviewService) AddReview(ctx context.Context, productID, userID uuid.UUID, rating int, comment string) (*models.Review, *apperrors.Error) {
	if rating < 1 || rating > 5 {
		return nil, apperrors.Validation("Rating must be between 1 and 5")
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		s.logger.Error("failed to fetch product", zap.String("productId", productID.String()), zap.Error(err))
		return nil, apperrors.Internal("Failed to add review", err)
	}
	if product == nil {
		return nil, apperrors.NotFound("Product not found")
	}

	qualified, err := s.orderRepo.HasQualifyingPurchase(ctx, userID, productID)
	if err != nil {
		s.logger.Error("failed to check purchase history", zap.String("userId", userID.String()), zap.Error(err))
		return nil, apperrors.Internal("Failed to add review", err)
	}
	if !qualified {
		return nil, apperrors.Forbidden("You can only review products you have purchased and received.")
	}

	alreadyReviewed, err := s.reviewRepo.ExistsByUserAndProduct(ctx, userID, productID)
	if err != nil {
		s.logger.Error("failed to check existing reviews", zap.String("userId", userID.String()), zap.Error(err))
		return nil, apperrors.Internal("Failed to add review", err)
	}
	if alreadyReviewed {
		return nil, apperrors.Validation("You have already reviewed this product.")
	}

	userName := ""
	if user, err := s.userRepo.FindByID(ctx, userID); err == nil {
		userName = user.Name
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Warn("could not resolve reviewer name", zap.String("userId", userID.String()), zap.Error(err))
	}

	review := &models.Review{
		ID:        uuid.New(),
		ProductID: productID,
		UserID:    userID,
		UserName:  userName,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		s.logger.Error("failed to create review", zap.String("productId", productID.String()), zap.Error(err))
		return nil, apperrors.Internal("Failed to add review", err)
	}

	if appErr := s.recomputeRating(ctx, product); appErr != nil {
		return nil, appErr
	}
	return review, nil
}

// GetReviews lists a product's reviews, oldest first.
func (s *ReviewService) GetReviews(ctx context.Context, productID uuid.UUID) ([]models.Review, *apperrors.Error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		s.logger.Error("failed to fetch product", zap.String("productId", productID.String()), zap.Error(err))
		return nil, apperrors.Internal("Failed to fetch reviews", err)
	}
	if product == nil {
		return nil, apperrors.NotFound("Product not found")
	}

	reviews, err := s.reviewRepo.FindByProductID(ctx, productID)
	if err != nil {
		s.logger.Error("failed to fetch reviews", zap.String("productId", productID.String()), zap.Error(err))
		return nil, apperrors.Internal("Failed to fetch reviews", err)
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return reviews, nil
}

func (s *ReviewService) recomputeRating(ctx context.Context, product *models.Product) *apperrors.Error {
	reviews, err := s.reviewRepo.FindByProductID(ctx, product.ID)
	if err != nil {
		s.logger.Error("failed to recompute rating", zap.String("productId", product.ID.String()), zap.Error(err))
		return apperrors.Internal("Failed to add review", err)
	}
	if len(reviews) == 0 {
		return nil
	}

	var sum int
	for _, r := range reviews {
		sum += r.Rating
	}
	product.Rating = float64(sum) / float64(len(reviews))

	if err := s.productRepo.Save(ctx, product); err != nil {
		s.logger.Error("failed to persist product rating", zap.String("productId", product.ID.String()), zap.Error(err))
		return apperrors.Internal("Failed to add review", err)
	}
	return nil
}
