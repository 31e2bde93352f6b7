package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mirajcandles/backend/middleware"
	"github.com/mirajcandles/backend/models"
	"github.com/mirajcandles/backend/services"
)

type OrderController struct {
	orderService *services.OrderService
}

func NewOrderController(orderService *services.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

type createOrderRequest struct {
	Items           []services.LineItemInput `json:"items" binding:"required,dive"`
	PaymentMethod   string                   `json:"paymentMethod" binding:"required"`
	ShippingAddress models.ShippingAddress   `json:"shippingAddress"`
}

// CreateOrder handles POST /api/orders
func (oc *OrderController) CreateOrder(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req createOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	order, appErr := oc.orderService.Create(ctx.Request.Context(), userID, req.Items, req.ShippingAddress, req.PaymentMethod)
	if appErr != nil {
		ctx.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}
	ctx.JSON(http.StatusCreated, order)
}

// GetOrders returns the authenticated buyer's orders.
func (oc *OrderController) GetOrders(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	orders, appErr := oc.orderService.GetUserOrders(ctx.Request.Context(), userID)
	if appErr != nil {
		ctx.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, orders)
}

// GetAllOrders returns every order joined with its buyer (admin only).
func (oc *OrderController) GetAllOrders(ctx *gin.Context) {
	orders, appErr := oc.orderService.GetAllOrders(ctx.Request.Context())
	if appErr != nil {
		ctx.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, orders)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus handles PUT /api/orders/:id/status
func (oc *OrderController) UpdateStatus(ctx *gin.Context) {
	var req updateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	order, appErr := oc.orderService.UpdateStatus(ctx.Request.Context(), ctx.Param("id"), models.OrderStatus(req.Status))
	if appErr != nil {
		ctx.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, order)
}

type updateDeliveryRequest struct {
	TrackingLink  string `json:"trackingLink"`
	DeliveryPhone string `json:"deliveryPhone"`
}

// UpdateDelivery handles PUT /api/orders/:id/delivery (admin only)
func (oc *OrderController) UpdateDelivery(ctx *gin.Context) {
	var req updateDeliveryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	order, appErr := oc.orderService.UpdateDelivery(ctx.Request.Context(), ctx.Param("id"), req.TrackingLink, req.DeliveryPhone)
	if appErr != nil {
		ctx.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, order)
}
