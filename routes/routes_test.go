package routes_test

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mirajcandles/backend/controllers"
	"github.com/mirajcandles/backend/middleware"
	"github.com/mirajcandles/backend/routes"
	"github.com/stretchr/testify/assert"
)

func TestRegister_WiresFullSurface(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	routes.Register(r, middleware.NewAuth("secret"), routes.Controllers{
		Orders:   controllers.NewOrderController(nil),
		Payments: controllers.NewPaymentController(nil),
		Reviews:  controllers.NewReviewController(nil),
		Carts:    controllers.NewCartController(nil),
	})

	registered := make(map[string]bool)
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	expected := []string{
		"POST /api/payment",
		"POST /api/verify-upi-payment",
		"POST /api/orders",
		"GET /api/orders",
		"GET /api/admin/orders",
		"PUT /api/orders/:id/status",
		"PUT /api/orders/:id/delivery",
		"PUT /api/admin/verify-payment/:id",
		"GET /api/reviews/:productId",
		"POST /api/reviews/:productId",
		"GET /api/cart",
		"POST /api/cart",
		"PUT /api/cart/:productId",
		"DELETE /api/cart/:productId",
		"DELETE /api/clear-cart",
	}
	for _, want := range expected {
		assert.True(t, registered[want], "missing route %s", want)
	}
}
