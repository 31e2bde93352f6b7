package services_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/mirajcandles/backend/services"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newCartService() (*services.CartService, *mockCartRepo) {
	repo := newMockCartRepo()
	return services.NewCartService(repo, zap.NewNop()), repo
}

func TestGetCart_AbsentCartIsEmpty(t *testing.T) {
	svc, _ := newCartService()

	cart, appErr := svc.GetCart(context.Background(), "user-1")

	assert.Nil(t, appErr)
	assert.Equal(t, "user-1", cart.UserID)
	assert.NotNil(t, cart.Items)
	assert.Empty(t, cart.Items)
}

func TestAddItem_MergesExistingLine(t *testing.T) {
	svc, repo := newCartService()

	_, appErr := svc.AddItem(context.Background(), "user-1", "prod-a", 2)
	assert.Nil(t, appErr)

	cart, appErr := svc.AddItem(context.Background(), "user-1", "prod-a", 3)
	assert.Nil(t, appErr)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)

	cart, appErr = svc.AddItem(context.Background(), "user-1", "prod-b", 1)
	assert.Nil(t, appErr)
	assert.Len(t, cart.Items, 2)

	assert.Len(t, repo.carts["user-1"].Items, 2)
}

func TestAddItem_ValidatesInput(t *testing.T) {
	svc, _ := newCartService()

	_, appErr := svc.AddItem(context.Background(), "user-1", "", 1)
	assert.NotNil(t, appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)

	_, appErr = svc.AddItem(context.Background(), "user-1", "prod-a", 0)
	assert.NotNil(t, appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
}

func TestUpdateQuantity_SetsNotAdds(t *testing.T) {
	svc, _ := newCartService()
	_, _ = svc.AddItem(context.Background(), "user-1", "prod-a", 2)

	cart, appErr := svc.UpdateQuantity(context.Background(), "user-1", "prod-a", 7)

	assert.Nil(t, appErr)
	assert.Equal(t, 7, cart.Items[0].Quantity)
}

func TestUpdateQuantity_MissingLine(t *testing.T) {
	svc, _ := newCartService()

	_, appErr := svc.UpdateQuantity(context.Background(), "user-1", "prod-a", 2)

	assert.NotNil(t, appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
}

func TestRemoveItem_AbsentLineIsNoOp(t *testing.T) {
	svc, _ := newCartService()
	_, _ = svc.AddItem(context.Background(), "user-1", "prod-a", 2)

	cart, appErr := svc.RemoveItem(context.Background(), "user-1", "prod-b")
	assert.Nil(t, appErr)
	assert.Len(t, cart.Items, 1)

	cart, appErr = svc.RemoveItem(context.Background(), "user-1", "prod-a")
	assert.Nil(t, appErr)
	assert.Empty(t, cart.Items)
}

func TestClearCart_DeletesKey(t *testing.T) {
	svc, repo := newCartService()
	_, _ = svc.AddItem(context.Background(), "user-1", "prod-a", 2)

	appErr := svc.ClearCart(context.Background(), "user-1")

	assert.Nil(t, appErr)
	_, ok := repo.carts["user-1"]
	assert.False(t, ok)
}

func TestCart_SaveFailureIsInternal(t *testing.T) {
	svc, repo := newCartService()
	repo.saveErr = assert.AnError

	_, appErr := svc.AddItem(context.Background(), "user-1", "prod-a", 1)

	assert.NotNil(t, appErr)
	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
}
