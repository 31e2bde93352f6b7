package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mirajcandles/backend/middleware"
	"github.com/mirajcandles/backend/services"
)

type CartController struct {
	cartService *services.CartService
}

func NewCartController(cartService *services.CartService) *CartController {
	return &CartController{cartService: cartService}
}

type cartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// GetCart handles GET /api/cart
func (cc *CartController) GetCart(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	cart, appErr := cc.cartService.GetCart(ctx.Request.Context(), userID.String())
	if appErr != nil {
		ctx.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, cart.Items)
}

// AddItem handles POST /api/cart
func (cc *CartController) AddItem(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req cartItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	cart, appErr := cc.cartService.AddItem(ctx.Request.Context(), userID.String(), req.ProductID, req.Quantity)
	if appErr != nil {
		ctx.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, cart.Items)
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// UpdateQuantity handles PUT /api/cart/:productId
func (cc *CartController) UpdateQuantity(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req updateCartItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	cart, appErr := cc.cartService.UpdateQuantity(ctx.Request.Context(), userID.String(), ctx.Param("productId"), req.Quantity)
	if appErr != nil {
		ctx.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, cart.Items)
}

// RemoveItem handles DELETE /api/cart/:productId
func (cc *CartController) RemoveItem(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	cart, appErr := cc.cartService.RemoveItem(ctx.Request.Context(), userID.String(), ctx.Param("productId"))
	if appErr != nil {
		ctx.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, cart.Items)
}

// ClearCart handles DELETE /api/clear-cart
func (cc *CartController) ClearCart(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if appErr := cc.cartService.ClearCart(ctx.Request.Context(), userID.String()); appErr != nil {
		ctx.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Cart cleared successfully"})
}
