package services_test

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mirajcandles/backend/models"
	"github.com/mirajcandles/backend/notifier"
	"github.com/mirajcandles/backend/repository"
	"gorm.io/gorm"
)

// ---- mock order repository ----

type mockOrderRepo struct {
	orders    map[uuid.UUID]*models.Order
	products  *mockProductRepo
	createErr error
	updateErr error
	findErr   error
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[uuid.UUID]*models.Order)}
}

func (m *mockOrderRepo) Create(_ context.Context, order *models.Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.orders[order.ID] = order
	return nil
}

func (m *mockOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	order, ok := m.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (m *mockOrderRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]models.Order, error) {
	var out []models.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) FindAll(_ context.Context) ([]models.Order, error) {
	var out []models.Order
	for _, o := range m.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (m *mockOrderRepo) Update(_ context.Context, order *models.Order) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.orders[order.ID] = order
	return nil
}

// MarkPaid mirrors the transactional semantics of the gorm repository: a
// fulfill error leaves the stored order untouched so the call is retryable.
func (m *mockOrderRepo) MarkPaid(ctx context.Context, id uuid.UUID, trackingLink, deliveryPhone string, fulfill repository.FulfillFunc) (*models.Order, bool, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, false, gorm.ErrRecordNotFound
	}
	if order.PaymentStatus == models.PaymentPaid {
		return order, false, nil
	}
	if !order.Status.CanTransitionTo(models.StatusShipped) ||
		!order.PaymentStatus.CanTransitionTo(models.PaymentPaid) {
		return nil, false, repository.ErrIllegalTransition
	}

	updated := *order
	updated.Status = models.StatusShipped
	updated.PaymentStatus = models.PaymentPaid
	updated.TrackingLink = trackingLink
	updated.DeliveryPhone = deliveryPhone
	if fulfill != nil {
		if err := fulfill(ctx, &updated, m.products); err != nil {
			return nil, false, err
		}
	}
	m.orders[id] = &updated
	return &updated, true, nil
}

func (m *mockOrderRepo) HasQualifyingPurchase(_ context.Context, userID, productID uuid.UUID) (bool, error) {
	for _, o := range m.orders {
		if o.UserID != userID || o.PaymentStatus != models.PaymentPaid {
			continue
		}
		if o.Status != models.StatusShipped && o.Status != models.StatusDelivered {
			continue
		}
		for _, item := range o.Items {
			if item.ProductID == productID {
				return true, nil
			}
		}
	}
	return false, nil
}

// ---- mock product repository ----

// mockProductRepo hands out copies and stores copies, the way a database
// round trip would: mutations on a fetched product are invisible until a
// successful Save.
type mockProductRepo struct {
	products      map[uuid.UUID]*models.Product
	saveErr       error
	failNextSaves int
	saves         int
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[uuid.UUID]*models.Product)}
}

func (m *mockProductRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	copied := *product
	return &copied, nil
}

func (m *mockProductRepo) Save(_ context.Context, product *models.Product) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if m.failNextSaves > 0 {
		m.failNextSaves--
		return errors.New("connection reset by peer")
	}
	copied := *product
	m.products[product.ID] = &copied
	m.saves++
	return nil
}

func (m *mockProductRepo) get(id uuid.UUID) *models.Product {
	return m.products[id]
}

// ---- mock user repository ----

type mockUserRepo struct {
	users  map[uuid.UUID]*models.User
	admins []models.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (m *mockUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (m *mockUserRepo) FindAdmins(_ context.Context) ([]models.User, error) {
	return m.admins, nil
}

// ---- mock review repository ----

type mockReviewRepo struct {
	reviews   []models.Review
	createErr error
}

func (m *mockReviewRepo) Create(_ context.Context, review *models.Review) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.reviews = append(m.reviews, *review)
	return nil
}

func (m *mockReviewRepo) FindByProductID(_ context.Context, productID uuid.UUID) ([]models.Review, error) {
	var out []models.Review
	for _, r := range m.reviews {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockReviewRepo) ExistsByUserAndProduct(_ context.Context, userID, productID uuid.UUID) (bool, error) {
	for _, r := range m.reviews {
		if r.UserID == userID && r.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

// ---- mock notifier ----

type mockNotifier struct {
	events []notifier.Event
}

func (m *mockNotifier) Enqueue(e notifier.Event) {
	m.events = append(m.events, e)
}

func (m *mockNotifier) eventsOfType(eventType string) []notifier.Event {
	var out []notifier.Event
	for _, e := range m.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// ---- mock cart repository ----

type mockCartRepo struct {
	carts   map[string]*models.Cart
	getErr  error
	saveErr error
	delErr  error
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{carts: make(map[string]*models.Cart)}
}

func (m *mockCartRepo) GetCart(_ context.Context, userID string) (*models.Cart, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.carts[userID], nil
}

func (m *mockCartRepo) SaveCart(_ context.Context, cart *models.Cart) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.carts[cart.UserID] = cart
	return nil
}

func (m *mockCartRepo) DeleteCart(_ context.Context, userID string) error {
	if m.delErr != nil {
		return m.delErr
	}
	delete(m.carts, userID)
	return nil
}
