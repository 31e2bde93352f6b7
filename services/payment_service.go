package services

import (
	"context"
	"encoding/base64"
	"errors"
	"math"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/mirajcandles/backend/apperrors"
	"github.com/mirajcandles/backend/models"
	"github.com/mirajcandles/backend/notifier"
	"github.com/mirajcandles/backend/repository"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QRResponse is the stateless payment quote returned to the buyer. It is
// not bound to any order; the client ties it to the checkout amount shown.
type QRResponse struct {
	QRCode      string  `json:"qrCode"`
	UPILink     string  `json:"upiLink"`
	UPIID       string  `json:"upiId"`
	Name        string  `json:"name"`
	TotalAmount float64 `json:"totalAmount"`
}

// Notifier is the outbound notification queue consumed by this service.
// Enqueue must never block or fail the caller.
type Notifier interface {
	Enqueue(e notifier.Event)
}

type PaymentService struct {
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	notifier  Notifier
	upiID     string
	payeeName string
	logger    *zap.Logger
}

func NewPaymentService(
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	notifierSvc Notifier,
	upiID, payeeName string,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		notifier:  notifierSvc,
		upiID:     upiID,
		payeeName: payeeName,
		logger:    logger,
	}
}

// GenerateQR builds the UPI deep link for the merchant account and the
// requested amount and renders it as a base64 PNG data URL.
func (s *PaymentService) GenerateQR(amount float64) (*QRResponse, *apperrors.Error) {
	if s.upiID == "" {
		return nil, apperrors.Configuration("Merchant UPI ID is not configured")
	}

	amountStr := strconv.FormatFloat(amount, 'f', -1, 64)
	upiLink := "upi://pay?pa=" + url.QueryEscape(s.upiID) +
		"&pn=" + url.QueryEscape(s.payeeName) +
		"&am=" + url.QueryEscape(amountStr) +
		"&cu=INR"

	png, err := qrcode.Encode(upiLink, qrcode.Medium, 256)
	if err != nil {
		s.logger.Error("failed to render payment QR", zap.Error(err))
		return nil, apperrors.Internal("Failed to generate QR", err)
	}

	return &QRResponse{
		QRCode:      "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
		UPILink:     upiLink,
		UPIID:       s.upiID,
		Name:        s.payeeName,
		TotalAmount: amount,
	}, nil
}

// SubmitTransaction records a buyer-asserted UPI transaction id against a
// fresh order built from the cart snapshot. The transaction id is stored
// verbatim; nothing here proves money moved — that is the admin's manual
// verification step.
func (s *PaymentService) SubmitTransaction(ctx context.Context, userID uuid.UUID, amount float64, transactionID string, items []LineItemInput, address models.Address) (*models.Order, *apperrors.Error) {
	if transactionID == "" {
		return nil, apperrors.Validation("Transaction ID is required")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("User not found")
		}
		s.logger.Error("failed to resolve buyer", zap.String("userId", userID.String()), zap.Error(err))
		return nil, apperrors.Internal("Failed to submit transaction", err)
	}

	shipping := models.ShippingAddress{
		Name:    user.Name,
		Email:   user.Email,
		Phone:   user.Phone,
		Street:  fallback(address.Street, user.Address.Street),
		City:    fallback(address.City, user.Address.City),
		State:   fallback(address.State, user.Address.State),
		ZipCode: fallback(address.ZipCode, user.Address.ZipCode),
	}

	order, appErr := buildOrder(userID, items, shipping, models.PaymentMethodUPI)
	if appErr != nil {
		return nil, appErr
	}
	order.Status = models.StatusProcessing
	order.PaymentStatus = models.PaymentSubmitted
	order.TransactionID = transactionID

	if math.Abs(order.TotalAmount-amount) > 0.01 {
		// The client-displayed amount is informational; the line-item sum
		// is authoritative. Disagreement is worth flagging for the admin.
		s.logger.Warn("submitted amount differs from line-item total",
			zap.String("orderId", order.ID.String()),
			zap.Float64("submitted", amount),
			zap.Float64("computed", order.TotalAmount),
		)
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		s.logger.Error("failed to create order", zap.String("userId", userID.String()), zap.Error(err))
		return nil, apperrors.Internal("Failed to submit transaction", err)
	}

	data := map[string]interface{}{
		"orderNumber": order.OrderNumber(),
		"amount":      order.TotalAmount,
	}
	s.notifier.Enqueue(notifier.Event{Type: notifier.TypeOrderRequest, To: user.Email, Data: data})
	s.notifyAllAdmins(ctx, notifier.TypeNewOrder, data)

	return order, nil
}

// VerifyPayment is the irreversible commit point: the admin has checked
// the banking app and confirmed funds arrived. The paid flip, stock
// decrement and sales increment commit in one transaction and happen
// exactly once per order; verifying an already-paid order is a no-op, and
// a failed fulfillment rolls back the flip so verification can be retried.
func (s *PaymentService) VerifyPayment(ctx context.Context, orderID, trackingLink, deliveryPhone string) (*models.Order, *apperrors.Error) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, apperrors.NotFound("Order not found")
	}

	order, performed, err := s.orderRepo.MarkPaid(ctx, id, trackingLink, deliveryPhone, s.fulfillItems)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Order not found")
		}
		if errors.Is(err, repository.ErrIllegalTransition) {
			return nil, apperrors.Validation("Order status does not allow payment verification")
		}
		s.logger.Error("failed to mark order paid", zap.String("orderId", orderID), zap.Error(err))
		return nil, apperrors.Internal("Failed to verify payment", err)
	}
	if !performed {
		s.logger.Info("order already paid, verification is a no-op", zap.String("orderId", orderID))
		return order, nil
	}

	if user, err := s.userRepo.FindByID(ctx, order.UserID); err != nil {
		s.logger.Warn("could not resolve buyer for confirmation email",
			zap.String("orderId", orderID), zap.Error(err))
	} else {
		s.notifier.Enqueue(notifier.Event{
			Type: notifier.TypePaymentConfirmed,
			To:   user.Email,
			Data: map[string]interface{}{
				"orderNumber":  order.OrderNumber(),
				"amount":       order.TotalAmount,
				"trackingLink": order.TrackingLink,
			},
		})
	}

	return order, nil
}

// fulfillItems applies the stock/sales mutation for each line item inside
// the MarkPaid transaction. A product deleted since purchase is skipped
// without aborting the rest; any load or save failure aborts and rolls the
// paid flip back. Stock is clamped at zero; sales counts the ordered
// quantity regardless, so reporting reflects demand even on oversold items.
func (s *PaymentService) fulfillItems(ctx context.Context, order *models.Order, products repository.ProductRepository) error {
	for _, item := range order.Items {
		product, err := products.FindByID(ctx, item.ProductID)
		if err != nil {
			s.logger.Error("failed to load product during fulfillment",
				zap.String("productId", item.ProductID.String()), zap.Error(err))
			return err
		}
		if product == nil {
			continue
		}

		if product.StockQuantity > 0 {
			product.StockQuantity = product.StockQuantity - item.Quantity
			if product.StockQuantity < 0 {
				product.StockQuantity = 0
			}
		}
		product.Sales += item.Quantity

		if err := products.Save(ctx, product); err != nil {
			s.logger.Error("failed to persist product fulfillment",
				zap.String("productId", item.ProductID.String()), zap.Error(err))
			return err
		}
	}
	return nil
}

func (s *PaymentService) notifyAllAdmins(ctx context.Context, eventType string, data map[string]interface{}) {
	admins, err := s.userRepo.FindAdmins(ctx)
	if err != nil {
		s.logger.Warn("failed to enumerate admins for broadcast", zap.Error(err))
		return
	}
	for _, admin := range admins {
		s.notifier.Enqueue(notifier.Event{Type: eventType, To: admin.Email, Data: data})
	}
}

func fallback(value, def string) string {
	if value != "" {
		return value
	}
	return def
}
