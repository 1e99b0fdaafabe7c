package order

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lunchcrew/lunch-api/internal/domain/catalog"
	"github.com/lunchcrew/lunch-api/internal/domain/user"
	"github.com/lunchcrew/lunch-api/internal/notify"
)

// --- Mock implementations ---

type mockCatalogRepo struct {
	byID   map[string]catalog.MenuItem
	getErr error
}

func (m *mockCatalogRepo) List(_ context.Context) ([]catalog.MenuItem, error) {
	return nil, nil
}

func (m *mockCatalogRepo) GetByID(_ context.Context, id string) (*catalog.MenuItem, error) {
	it, ok := m.byID[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return &it, nil
}

func (m *mockCatalogRepo) GetByIDs(_ context.Context, ids []string) ([]catalog.MenuItem, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	var out []catalog.MenuItem
	seen := make(map[string]bool)
	for _, id := range ids {
		if it, ok := m.byID[id]; ok && !seen[id] {
			out = append(out, it)
			seen[id] = true
		}
	}
	return out, nil
}

type mockUserRepo struct {
	byID map[string]*user.User
}

func (m *mockUserRepo) List(_ context.Context) ([]user.User, error) { return nil, nil }

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*user.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetByIDs(_ context.Context, _ []string) ([]user.User, error) {
	return nil, nil
}

func (m *mockUserRepo) ListByCompany(_ context.Context, _ string) ([]user.User, error) {
	return nil, nil
}

func (m *mockUserRepo) Count(_ context.Context) (int64, error) { return 0, nil }

type mockOrderRepo struct {
	lastOrder *Order
	err       error
}

func (m *mockOrderRepo) Create(_ context.Context, o *Order) error {
	if m.err != nil {
		return m.err
	}
	m.lastOrder = o
	return nil
}

func (m *mockOrderRepo) ListAll(_ context.Context) ([]Order, error)              { return nil, nil }
func (m *mockOrderRepo) ListByUser(_ context.Context, _ string) ([]Order, error) { return nil, nil }
func (m *mockOrderRepo) ListByUserIDs(_ context.Context, _ []string) ([]Order, error) {
	return nil, nil
}
func (m *mockOrderRepo) ListByDeliveryWindow(_ context.Context, _, _ time.Time) ([]Order, error) {
	return nil, nil
}
func (m *mockOrderRepo) ListByUserIDsAndDeliveryWindow(_ context.Context, _ []string, _, _ time.Time) ([]Order, error) {
	return nil, nil
}
func (m *mockOrderRepo) ListRecent(_ context.Context, _ int) ([]Order, error) { return nil, nil }
func (m *mockOrderRepo) CountCreatedBetween(_ context.Context, _, _ time.Time) (int64, error) {
	return 0, nil
}
func (m *mockOrderRepo) RevenueByWeekday(_ context.Context, _, _ time.Time) (map[time.Weekday]decimal.Decimal, error) {
	return nil, nil
}
func (m *mockOrderRepo) TotalRevenue(_ context.Context) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type mockNotifier struct {
	sent []notify.Confirmation
	err  error
}

func (m *mockNotifier) SendOrderConfirmation(_ context.Context, c notify.Confirmation) error {
	m.sent = append(m.sent, c)
	return m.err
}

// --- Helpers ---

func newCatalogRepo(items ...catalog.MenuItem) *mockCatalogRepo {
	byID := make(map[string]catalog.MenuItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	return &mockCatalogRepo{byID: byID}
}

func newUserRepo(users ...*user.User) *mockUserRepo {
	byID := make(map[string]*user.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return &mockUserRepo{byID: byID}
}

func menuItem(id, name, price string) catalog.MenuItem {
	return catalog.MenuItem{ID: id, Name: name, Price: decimal.RequireFromString(price)}
}

func validRequest() CreateRequest {
	return CreateRequest{
		UserID:        "u1",
		Items:         []LineRequest{{ItemID: "m1", Quantity: 2}},
		PaymentMethod: "card",
		DeliveryDate:  time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC),
	}
}

var testUser = &user.User{
	ID:       "u1",
	Name:     "apatel",
	FullName: "Aisha Patel",
	Email:    "aisha@example.com",
}

// --- Tests ---

func TestCreate_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateRequest)
	}{
		{"no user", func(r *CreateRequest) { r.UserID = "" }},
		{"no items", func(r *CreateRequest) { r.Items = nil }},
		{"no payment method", func(r *CreateRequest) { r.PaymentMethod = "" }},
		{"no delivery date", func(r *CreateRequest) { r.DeliveryDate = time.Time{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(newCatalogRepo(), newUserRepo(), &mockOrderRepo{}, notify.Nop{}, zap.NewNop())
			req := validRequest()
			tt.mutate(&req)

			_, err := svc.Create(context.Background(), req)
			require.ErrorIs(t, err, ErrMissingFields)
		})
	}
}

func TestCreate_InvalidQuantity(t *testing.T) {
	svc := NewService(
		newCatalogRepo(menuItem("m1", "Pizza", "10.00")),
		newUserRepo(testUser),
		&mockOrderRepo{},
		notify.Nop{},
		zap.NewNop(),
	)

	req := validRequest()
	req.Items = []LineRequest{{ItemID: "m1", Quantity: 0}}

	_, err := svc.Create(context.Background(), req)

	var iqErr *InvalidQuantityError
	require.ErrorAs(t, err, &iqErr)
	assert.Equal(t, "m1", iqErr.ItemID)
}

func TestCreate_MenuItemNotFound(t *testing.T) {
	orders := &mockOrderRepo{}
	svc := NewService(newCatalogRepo(), newUserRepo(testUser), orders, notify.Nop{}, zap.NewNop())

	req := validRequest()
	req.Items = []LineRequest{{ItemID: "missing", Quantity: 1}}

	_, err := svc.Create(context.Background(), req)

	var nfErr *MenuItemNotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "missing", nfErr.ItemID)
	assert.Nil(t, orders.lastOrder, "no order should be persisted")
}

func TestCreate_UserNotFound(t *testing.T) {
	orders := &mockOrderRepo{}
	svc := NewService(
		newCatalogRepo(menuItem("m1", "Pizza", "10.00")),
		newUserRepo(),
		orders,
		notify.Nop{},
		zap.NewNop(),
	)

	_, err := svc.Create(context.Background(), validRequest())
	require.ErrorIs(t, err, user.ErrNotFound)
	assert.Nil(t, orders.lastOrder, "no order should be persisted for an unknown user")
}

func TestCreate_ComputesTotal(t *testing.T) {
	orders := &mockOrderRepo{}
	svc := NewService(
		newCatalogRepo(
			menuItem("m1", "Pizza", "14.50"),
			menuItem("m2", "Salad", "12.90"),
		),
		newUserRepo(testUser),
		orders,
		notify.Nop{},
		zap.NewNop(),
	)

	req := validRequest()
	req.Items = []LineRequest{
		{ItemID: "m1", Quantity: 2, Extras: []string{"extra cheese"}},
		{ItemID: "m2", Quantity: 1},
	}

	res, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	// 2 * 14.50 + 1 * 12.90 = 41.90
	assert.True(t, decimal.RequireFromString("41.90").Equal(res.Order.TotalPrice),
		"expected 41.90, got %s", res.Order.TotalPrice)

	require.NotNil(t, orders.lastOrder)
	assert.Equal(t, res.Order.ID, orders.lastOrder.ID)
	assert.NotEmpty(t, orders.lastOrder.ID)
	assert.Equal(t, PaymentCompleted, orders.lastOrder.PaymentStatus)
	assert.Equal(t, StatusOrdered, orders.lastOrder.Status)

	require.Len(t, res.Items, 2)
	assert.Equal(t, "Pizza", res.Items[0].ItemName)
	assert.Equal(t, []string{"extra cheese"}, res.Items[0].Extras)
	assert.Equal(t, "Salad", res.Items[1].ItemName)
	assert.Equal(t, []string{}, res.Items[1].Extras, "nil extras are normalized to an empty slice")
}

func TestCreate_SendsConfirmation(t *testing.T) {
	notifier := &mockNotifier{}
	svc := NewService(
		newCatalogRepo(menuItem("m1", "Pizza", "14.50")),
		newUserRepo(testUser),
		&mockOrderRepo{},
		notifier,
		zap.NewNop(),
	)

	res, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	require.Len(t, notifier.sent, 1)
	c := notifier.sent[0]
	assert.Equal(t, "aisha@example.com", c.To)
	assert.Equal(t, "Aisha Patel", c.FullName)
	assert.Equal(t, res.Order.ID, c.OrderID)
	assert.True(t, decimal.RequireFromString("29.00").Equal(c.TotalPrice))
	require.Len(t, c.Lines, 1)
	assert.Equal(t, notify.ConfirmationLine{ItemName: "Pizza", Quantity: 2}, c.Lines[0])
}

func TestCreate_NotificationFailureDoesNotFailOrder(t *testing.T) {
	notifier := &mockNotifier{err: errors.New("smtp down")}
	orders := &mockOrderRepo{}
	svc := NewService(
		newCatalogRepo(menuItem("m1", "Pizza", "14.50")),
		newUserRepo(testUser),
		orders,
		notifier,
		zap.NewNop(),
	)

	res, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err, "a failed confirmation mail must not fail the order")
	assert.NotNil(t, res.Order)
	assert.NotNil(t, orders.lastOrder, "the order is persisted before the mail attempt")
}

func TestCreate_RepoError(t *testing.T) {
	repoErr := errors.New("db down")
	svc := NewService(
		newCatalogRepo(menuItem("m1", "Pizza", "14.50")),
		newUserRepo(testUser),
		&mockOrderRepo{err: repoErr},
		notify.Nop{},
		zap.NewNop(),
	)

	_, err := svc.Create(context.Background(), validRequest())
	require.ErrorIs(t, err, repoErr)
}
