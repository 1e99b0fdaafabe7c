package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/lunchcrew/lunch-api/internal/domain/catalog"
	"github.com/lunchcrew/lunch-api/internal/domain/user"
	"github.com/lunchcrew/lunch-api/internal/notify"
)

// ErrMissingFields is returned when a required create-order field is absent.
var ErrMissingFields = errors.New("all fields are required")

// MenuItemNotFoundError indicates a requested line item does not exist in the
// catalog. The whole request fails; no partial order is created.
type MenuItemNotFoundError struct {
	ItemID string
}

func (e *MenuItemNotFoundError) Error() string {
	return fmt.Sprintf("menu item with ID %s not found", e.ItemID)
}

// InvalidQuantityError indicates a line item has a non-positive quantity.
type InvalidQuantityError struct {
	ItemID string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for item %s", e.ItemID)
}

// LineRequest is one requested line item.
type LineRequest struct {
	ItemID   string
	Quantity int
	Extras   []string
}

// CreateRequest holds the input for creating an order.
type CreateRequest struct {
	UserID        string
	Items         []LineRequest
	PaymentMethod string
	DeliveryDate  time.Time
}

// EnrichedItem is a line item annotated with its catalog name for the
// response and the confirmation mail.
type EnrichedItem struct {
	ItemID   string
	ItemName string
	Quantity int
	Extras   []string
}

// CreateResult holds the created order and its name-annotated line items.
type CreateResult struct {
	Order *Order
	Items []EnrichedItem
}

// Service encapsulates order creation business logic.
type Service struct {
	items    catalog.Repository
	users    user.Repository
	orders   Repository
	notifier notify.Notifier
	lg       *zap.Logger
}

// NewService creates an order Service with the required dependencies.
func NewService(
	items catalog.Repository,
	users user.Repository,
	orders Repository,
	notifier notify.Notifier,
	lg *zap.Logger,
) *Service {
	return &Service{
		items:    items,
		users:    users,
		orders:   orders,
		notifier: notifier,
		lg:       lg,
	}
}

// Create validates the request, resolves all line items in a single batch,
// computes the total, persists the order, and dispatches the confirmation
// mail. A notification failure is logged but does not fail the request: the
// order is already persisted and the two operations are not atomic.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	if req.UserID == "" || len(req.Items) == 0 || req.PaymentMethod == "" || req.DeliveryDate.IsZero() {
		return nil, ErrMissingFields
	}

	// Validate quantities and collect item IDs.
	ids := make([]string, len(req.Items))
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, &InvalidQuantityError{ItemID: item.ItemID}
		}
		ids[i] = item.ItemID
	}

	// Batch fetch the whole catalog slice in one query.
	fetched, err := s.items.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get menu items")
	}

	itemMap := make(map[string]catalog.MenuItem, len(fetched))
	for _, it := range fetched {
		itemMap[it.ID] = it
	}

	// Verify every requested item was found, accumulate the total, and build
	// the enriched lines in request order.
	total := decimal.Zero
	lines := make([]LineItem, len(req.Items))
	enriched := make([]EnrichedItem, len(req.Items))
	for i, item := range req.Items {
		mi, ok := itemMap[item.ItemID]
		if !ok {
			return nil, &MenuItemNotFoundError{ItemID: item.ItemID}
		}

		extras := item.Extras
		if extras == nil {
			extras = []string{}
		}
		lines[i] = LineItem{
			ItemID:   item.ItemID,
			Quantity: item.Quantity,
			Extras:   extras,
		}
		enriched[i] = EnrichedItem{
			ItemID:   item.ItemID,
			ItemName: mi.Name,
			Quantity: item.Quantity,
			Extras:   extras,
		}
		total = total.Add(mi.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	// Resolve the user before the insert so a bad user ID never persists an
	// order.
	u, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	o := &Order{
		ID:            uuid.New().String(),
		UserID:        req.UserID,
		Items:         lines,
		TotalPrice:    total,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: PaymentCompleted,
		DeliveryDate:  req.DeliveryDate,
		Status:        StatusOrdered,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	confirmationLines := make([]notify.ConfirmationLine, len(enriched))
	for i, e := range enriched {
		confirmationLines[i] = notify.ConfirmationLine{
			ItemName: e.ItemName,
			Quantity: e.Quantity,
		}
	}
	err = s.notifier.SendOrderConfirmation(ctx, notify.Confirmation{
		To:           u.Email,
		FullName:     u.FullName,
		OrderID:      o.ID,
		TotalPrice:   total,
		DeliveryDate: req.DeliveryDate,
		Lines:        confirmationLines,
	})
	if err != nil {
		s.lg.Warn("order confirmation mail failed",
			zap.String("order_id", o.ID),
			zap.String("user_id", req.UserID),
			zap.Error(err),
		)
	}

	return &CreateResult{Order: o, Items: enriched}, nil
}
