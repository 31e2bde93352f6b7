package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the shipment axis of an order's lifecycle. It moves
// independently of PaymentStatus: an order may be cancelled whatever its
// payment state.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// PaymentStatus tracks the reconciliation of a buyer-submitted UPI
// transaction. The quoted value is kept verbatim for wire compatibility
// with existing clients.
type PaymentStatus string

const (
	PaymentUnpaid    PaymentStatus = "unpaid"
	PaymentSubmitted PaymentStatus = "Payment Submitted"
	PaymentPaid      PaymentStatus = "paid"
)

const PaymentMethodUPI = "UPI"

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo guards the shipment axis. Cancelled and delivered are
// terminal: no un-cancelling, no re-shipping.
func (s OrderStatus) CanTransitionTo(to OrderStatus) bool {
	if !to.Valid() {
		return false
	}
	if s == to {
		return true
	}
	switch s {
	case StatusCancelled, StatusDelivered:
		return false
	}
	return true
}

// CanTransitionTo guards the payment axis: strictly forward, never back.
func (p PaymentStatus) CanTransitionTo(to PaymentStatus) bool {
	if p == to {
		return true
	}
	switch p {
	case PaymentUnpaid:
		return to == PaymentSubmitted || to == PaymentPaid
	case PaymentSubmitted:
		return to == PaymentPaid
	}
	return false
}

// ShippingAddress is copied onto the order at creation so later profile
// edits do not alter historical orders.
type ShippingAddress struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
}

type Order struct {
	ID              uuid.UUID       `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID       `json:"userId" gorm:"type:uuid;not null;index"`
	Items           []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TotalAmount     float64         `json:"totalAmount" gorm:"not null"`
	Status          OrderStatus     `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus" gorm:"type:varchar(30);not null;default:'unpaid'"`
	PaymentMethod   string          `json:"paymentMethod" gorm:"type:varchar(20);not null"`
	TransactionID   string          `json:"transactionId" gorm:"type:varchar(255)"`
	TrackingLink    string          `json:"trackingLink" gorm:"type:varchar(1024)"`
	DeliveryPhone   string          `json:"deliveryPhone" gorm:"type:varchar(20)"`
	ShippingAddress ShippingAddress `json:"shippingAddress" gorm:"embedded;embeddedPrefix:shipping_"`
	CreatedAt       time.Time       `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt       time.Time       `json:"updatedAt" gorm:"autoUpdateTime"`
}

// OrderItem is one line of the immutable cart snapshot taken at creation.
// Price is the price at purchase, not a reference to the live product price.
type OrderItem struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID `json:"orderId" gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `json:"productId" gorm:"type:uuid;not null"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	Price     float64   `json:"price" gorm:"not null"`
}

// OrderNumber is the short human-facing reference shown on receipts and
// quoted in support queries ("ORD-" + last six hex digits of the id).
func (o *Order) OrderNumber() string {
	id := strings.ReplaceAll(o.ID.String(), "-", "")
	return "ORD-" + strings.ToUpper(id[len(id)-6:])
}
