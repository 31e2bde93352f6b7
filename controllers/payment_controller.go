package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mirajcandles/backend/middleware"
	"github.com/mirajcandles/backend/models"
	"github.com/mirajcandles/backend/services"
)

type PaymentController struct {
	paymentService *services.PaymentService
}

func NewPaymentController(paymentService *services.PaymentService) *PaymentController {
	return &PaymentController{paymentService: paymentService}
}

type generateQRRequest struct {
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	PaymentMethod string  `json:"paymentMethod" binding:"required"`
}

// GenerateQR handles POST /api/payment
func (pc *PaymentController) GenerateQR(ctx *gin.Context) {
	var req generateQRRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	if req.PaymentMethod != models.PaymentMethodUPI {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported payment method"})
		return
	}

	quote, appErr := pc.paymentService.GenerateQR(req.Amount)
	if appErr != nil {
		ctx.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":     true,
		"qrCode":      quote.QRCode,
		"upiLink":     quote.UPILink,
		"upiId":       quote.UPIID,
		"name":        quote.Name,
		"totalAmount": quote.TotalAmount,
	})
}

type submitTransactionRequest struct {
	Amount  float64                  `json:"amount" binding:"required,gt=0"`
	TxnID   string                   `json:"txnId"`
	Items   []services.LineItemInput `json:"items" binding:"required,dive"`
	Street  string                   `json:"street"`
	City    string                   `json:"city"`
	State   string                   `json:"state"`
	ZipCode string                   `json:"zipCode"`
}

// SubmitTransaction handles POST /api/verify-upi-payment
func (pc *PaymentController) SubmitTransaction(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req submitTransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request", "details": err.Error()})
		return
	}
	if req.TxnID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Transaction ID is required"})
		return
	}

	address := models.Address{
		Street:  req.Street,
		City:    req.City,
		State:   req.State,
		ZipCode: req.ZipCode,
	}
	order, appErr := pc.paymentService.SubmitTransaction(ctx.Request.Context(), userID, req.Amount, req.TxnID, req.Items, address)
	if appErr != nil {
		ctx.JSON(appErr.Code, gin.H{"success": false, "message": appErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Transaction ID received",
		"orderId": order.ID,
	})
}

type verifyPaymentRequest struct {
	TrackingLink  string `json:"trackingLink"`
	DeliveryPhone string `json:"deliveryPhone"`
}

// VerifyPayment handles PUT /api/admin/verify-payment/:id
func (pc *PaymentController) VerifyPayment(ctx *gin.Context) {
	var req verifyPaymentRequest
	// Tracking details are optional; an empty body verifies without them.
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	order, appErr := pc.paymentService.VerifyPayment(ctx.Request.Context(), ctx.Param("id"), req.TrackingLink, req.DeliveryPhone)
	if appErr != nil {
		ctx.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}
