package services_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/mirajcandles/backend/models"
	"github.com/mirajcandles/backend/services"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newOrderService(orderRepo *mockOrderRepo, userRepo *mockUserRepo) *services.OrderService {
	return services.NewOrderService(orderRepo, userRepo, zap.NewNop())
}

func testAddress() models.ShippingAddress {
	return models.ShippingAddress{
		Name: "Asha", Email: "asha@example.com", Phone: "9999999999",
		Street: "12 MG Road", City: "Pune", State: "MH", ZipCode: "411001",
	}
}

func TestCreate_ComputesTotalAndSnapshotsItems(t *testing.T) {
	repo := newMockOrderRepo()
	svc := newOrderService(repo, newMockUserRepo())
	userID := uuid.New()
	p1 := uuid.New()
	p2 := uuid.New()

	order, appErr := svc.Create(context.Background(), userID, []services.LineItemInput{
		{ProductID: p1.String(), Quantity: 2, Price: 100},
		{ProductID: p2.String(), Quantity: 1, Price: 50.5},
	}, testAddress(), models.PaymentMethodUPI)

	assert.Nil(t, appErr)
	assert.Equal(t, 250.5, order.TotalAmount)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, models.PaymentUnpaid, order.PaymentStatus)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, p1, order.Items[0].ProductID)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, 100.0, order.Items[0].Price)
	assert.Contains(t, repo.orders, order.ID)
}

func TestCreate_RejectsEmptyItems(t *testing.T) {
	svc := newOrderService(newMockOrderRepo(), newMockUserRepo())

	_, appErr := svc.Create(context.Background(), uuid.New(), nil, testAddress(), models.PaymentMethodUPI)

	assert.NotNil(t, appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
}

func TestCreate_RejectsMalformedLineItems(t *testing.T) {
	svc := newOrderService(newMockOrderRepo(), newMockUserRepo())

	cases := []services.LineItemInput{
		{ProductID: "not-a-uuid", Quantity: 1, Price: 10},
		{ProductID: uuid.NewString(), Quantity: 0, Price: 10},
		{ProductID: uuid.NewString(), Quantity: 1, Price: -1},
	}
	for _, item := range cases {
		_, appErr := svc.Create(context.Background(), uuid.New(), []services.LineItemInput{item}, testAddress(), models.PaymentMethodUPI)
		assert.NotNil(t, appErr)
		assert.Equal(t, http.StatusBadRequest, appErr.Code)
	}
}

func TestUpdateStatus_TotalAmountNeverChanges(t *testing.T) {
	repo := newMockOrderRepo()
	svc := newOrderService(repo, newMockUserRepo())
	order, _ := svc.Create(context.Background(), uuid.New(), []services.LineItemInput{
		{ProductID: uuid.NewString(), Quantity: 3, Price: 40},
	}, testAddress(), models.PaymentMethodUPI)

	updated, appErr := svc.UpdateStatus(context.Background(), order.ID.String(), models.StatusProcessing)

	assert.Nil(t, appErr)
	assert.Equal(t, 120.0, updated.TotalAmount)
}

func TestUpdateStatus_GuardsTerminalStates(t *testing.T) {
	repo := newMockOrderRepo()
	svc := newOrderService(repo, newMockUserRepo())

	cancelled := &models.Order{ID: uuid.New(), UserID: uuid.New(), Status: models.StatusCancelled}
	delivered := &models.Order{ID: uuid.New(), UserID: uuid.New(), Status: models.StatusDelivered}
	repo.orders[cancelled.ID] = cancelled
	repo.orders[delivered.ID] = delivered

	_, appErr := svc.UpdateStatus(context.Background(), cancelled.ID.String(), models.StatusProcessing)
	assert.NotNil(t, appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)

	_, appErr = svc.UpdateStatus(context.Background(), delivered.ID.String(), models.StatusShipped)
	assert.NotNil(t, appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
}

func TestUpdateStatus_RejectsUnknownStatusAndOrder(t *testing.T) {
	repo := newMockOrderRepo()
	svc := newOrderService(repo, newMockUserRepo())
	order := &models.Order{ID: uuid.New(), Status: models.StatusPending}
	repo.orders[order.ID] = order

	_, appErr := svc.UpdateStatus(context.Background(), order.ID.String(), models.OrderStatus("teleported"))
	assert.NotNil(t, appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)

	_, appErr = svc.UpdateStatus(context.Background(), uuid.NewString(), models.StatusShipped)
	assert.NotNil(t, appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
}

func TestUpdateDelivery_PatchesTrackingOnly(t *testing.T) {
	repo := newMockOrderRepo()
	svc := newOrderService(repo, newMockUserRepo())
	order := &models.Order{
		ID:            uuid.New(),
		Status:        models.StatusProcessing,
		PaymentStatus: models.PaymentSubmitted,
	}
	repo.orders[order.ID] = order

	updated, appErr := svc.UpdateDelivery(context.Background(), order.ID.String(), "https://track.example/x", "8888888888")

	assert.Nil(t, appErr)
	assert.Equal(t, "https://track.example/x", updated.TrackingLink)
	assert.Equal(t, "8888888888", updated.DeliveryPhone)
	assert.Equal(t, models.StatusProcessing, updated.Status)
	assert.Equal(t, models.PaymentSubmitted, updated.PaymentStatus)
}

func TestGetUserOrders_EmptyIsNotNil(t *testing.T) {
	svc := newOrderService(newMockOrderRepo(), newMockUserRepo())

	orders, appErr := svc.GetUserOrders(context.Background(), uuid.New())

	assert.Nil(t, appErr)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestGetAllOrders_JoinsBuyer(t *testing.T) {
	repo := newMockOrderRepo()
	users := newMockUserRepo()
	svc := newOrderService(repo, users)

	buyer := &models.User{ID: uuid.New(), Name: "Asha", Email: "asha@example.com"}
	users.users[buyer.ID] = buyer
	first := &models.Order{ID: uuid.New(), UserID: buyer.ID}
	second := &models.Order{ID: uuid.New(), UserID: uuid.New()} // deleted account
	repo.orders[first.ID] = first
	repo.orders[second.ID] = second

	views, appErr := svc.GetAllOrders(context.Background())

	assert.Nil(t, appErr)
	assert.Len(t, views, 2)
	var joined, orphaned int
	for _, v := range views {
		if v.User != nil {
			joined++
			assert.Equal(t, "Asha", v.User.Name)
		} else {
			orphaned++
		}
	}
	assert.Equal(t, 1, joined)
	assert.Equal(t, 1, orphaned)
}

func TestCreate_PersistenceErrorIsInternal(t *testing.T) {
	repo := newMockOrderRepo()
	repo.createErr = errors.New("connection reset")
	svc := newOrderService(repo, newMockUserRepo())

	_, appErr := svc.Create(context.Background(), uuid.New(), []services.LineItemInput{
		{ProductID: uuid.NewString(), Quantity: 1, Price: 10},
	}, testAddress(), models.PaymentMethodUPI)

	assert.NotNil(t, appErr)
	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
}
