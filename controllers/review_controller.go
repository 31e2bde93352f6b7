package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mirajcandles/backend/middleware"
	"github.com/mirajcandles/backend/services"
)

type ReviewController struct {
	reviewService *services.ReviewService
}

func NewReviewController(reviewService *services.ReviewService) *ReviewController {
	return &ReviewController{reviewService: reviewService}
}

type addReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// AddReview handles POST /api/reviews/:productId
func (rc *ReviewController) AddReview(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	productID, err := uuid.Parse(ctx.Param("productId"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var req addReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	review, appErr := rc.reviewService.AddReview(ctx.Request.Context(), productID, userID, req.Rating, req.Comment)
	if appErr != nil {
		ctx.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}
	ctx.JSON(http.StatusCreated, review)
}

// GetReviews handles GET /api/reviews/:productId
func (rc *ReviewController) GetReviews(ctx *gin.Context) {
	productID, err := uuid.Parse(ctx.Param("productId"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	reviews, appErr := rc.reviewService.GetReviews(ctx.Request.Context(), productID)
	if appErr != nil {
		ctx.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, reviews)
}
