package report

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"

	"github.com/lunchcrew/lunch-api/internal/domain/catalog"
	"github.com/lunchcrew/lunch-api/internal/domain/company"
	"github.com/lunchcrew/lunch-api/internal/domain/feedback"
	"github.com/lunchcrew/lunch-api/internal/domain/order"
	"github.com/lunchcrew/lunch-api/internal/domain/user"
)

// Service composes the repositories into the reporting operations.
type Service struct {
	orders    order.Repository
	users     user.Repository
	companies company.Repository
	items     catalog.Repository
	feedback  feedback.Repository
}

// NewService creates a reporting Service with the required repositories.
func NewService(
	orders order.Repository,
	users user.Repository,
	companies company.Repository,
	items catalog.Repository,
	fb feedback.Repository,
) *Service {
	return &Service{
		orders:    orders,
		users:     users,
		companies: companies,
		items:     items,
		feedback:  fb,
	}
}

// ListOrders returns every order joined to its user, the user's company, and
// each line item's catalog entry. Orders whose user reference does not
// resolve are dropped from the result; this mirrors the documented policy
// that such orders are administrative debris, not an error.
func (s *Service) ListOrders(ctx context.Context) ([]OrderView, error) {
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	if len(orders) == 0 {
		return nil, ErrNoOrders
	}

	userMap, companyMap, err := s.resolveRequesters(ctx, orders)
	if err != nil {
		return nil, err
	}
	itemMap, err := s.resolveItems(ctx, orders)
	if err != nil {
		return nil, err
	}

	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		u, ok := userMap[o.UserID]
		if !ok {
			continue // unresolved user: dropped by policy
		}

		uv := UserView{
			ID:          u.ID,
			Name:        u.Name,
			FullName:    u.FullName,
			Email:       u.Email,
			PhoneNumber: u.PhoneNumber,
		}
		if u.CompanyID != nil {
			if c, ok := companyMap[*u.CompanyID]; ok {
				uv.Company = &CompanyView{
					ID:            c.ID,
					Name:          c.Name,
					Address:       c.Address,
					ContactNumber: c.ContactNumber,
				}
			}
		}

		items := make([]ItemView, len(o.Items))
		for i, li := range o.Items {
			iv := ItemView{
				ItemID:   li.ItemID,
				Name:     "Unknown",
				Quantity: li.Quantity,
				Extras:   li.Extras,
			}
			if mi, ok := itemMap[li.ItemID]; ok {
				iv.Name = mi.Name
				iv.Price = mi.Price
			}
			items[i] = iv
		}

		views = append(views, OrderView{
			OrderID:       o.ID,
			User:          uv,
			Items:         items,
			TotalPrice:    o.TotalPrice,
			PaymentMethod: o.PaymentMethod,
			PaymentStatus: o.PaymentStatus,
			DeliveryDate:  o.DeliveryDate,
			Status:        o.Status,
			CreatedAt:     o.CreatedAt,
			UpdatedAt:     o.UpdatedAt,
		})
	}

	return views, nil
}

// MyOrders returns all orders for the given user.
func (s *Service) MyOrders(ctx context.Context, userID string) ([]order.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrapf(err, "list orders for user %s", userID)
	}
	if len(orders) == 0 {
		return nil, ErrNoOrdersUser
	}
	return orders, nil
}

// CompaniesWithOrderCounts groups every company's orders by resolving its
// users and their orders. The whole report costs three queries regardless of
// company count: companies, users, and one set-membership order lookup.
func (s *Service) CompaniesWithOrderCounts(ctx context.Context) ([]CompanyOrders, error) {
	companies, err := s.companies.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list companies")
	}
	if len(companies) == 0 {
		return nil, ErrNoCompanies
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list users")
	}

	usersByCompany := make(map[string][]string)
	userIDs := make([]string, 0, len(users))
	for _, u := range users {
		if u.CompanyID == nil {
			continue
		}
		usersByCompany[*u.CompanyID] = append(usersByCompany[*u.CompanyID], u.ID)
		userIDs = append(userIDs, u.ID)
	}

	ordersByUser := make(map[string][]order.Order)
	if len(userIDs) > 0 {
		orders, err := s.orders.ListByUserIDs(ctx, userIDs)
		if err != nil {
			return nil, errors.Wrap(err, "list orders by users")
		}
		for _, o := range orders {
			ordersByUser[o.UserID] = append(ordersByUser[o.UserID], o)
		}
	}

	result := make([]CompanyOrders, 0, len(companies))
	for _, c := range companies {
		grouped := []order.Order{}
		for _, uid := range usersByCompany[c.ID] {
			grouped = append(grouped, ordersByUser[uid]...)
		}
		result = append(result, CompanyOrders{
			CompanyName: c.Name,
			OrderCount:  len(grouped),
			Orders:      grouped,
		})
	}

	return result, nil
}

// OrdersByCompanyAndDate resolves a company, its users, and their orders
// delivered within the UTC day-window of date, and flattens them into export
// rows: one row per (order, line item) pair. It also returns the company name
// for the export filename.
func (s *Service) OrdersByCompanyAndDate(ctx context.Context, companyID string, date time.Time) ([]ExportRow, string, error) {
	c, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, company.ErrNotFound) {
			return nil, "", &CompanyNotFoundError{CompanyID: companyID}
		}
		return nil, "", errors.Wrapf(err, "get company %s", companyID)
	}

	users, err := s.users.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, "", errors.Wrapf(err, "list users for company %s", companyID)
	}
	if len(users) == 0 {
		return nil, "", &NoUsersForCompanyError{CompanyID: companyID}
	}

	userIDs := make([]string, len(users))
	for i, u := range users {
		userIDs[i] = u.ID
	}

	from, to := DayWindow(date)
	orders, err := s.orders.ListByUserIDsAndDeliveryWindow(ctx, userIDs, from, to)
	if err != nil {
		return nil, "", errors.Wrapf(err, "list orders for company %s", companyID)
	}
	if len(orders) == 0 {
		return nil, "", &NoOrdersForDateError{CompanyID: companyID, Date: from.Format("2006-01-02")}
	}

	itemMap, err := s.resolveItems(ctx, orders)
	if err != nil {
		return nil, "", err
	}

	var rows []ExportRow
	for _, o := range orders {
		for _, li := range o.Items {
			name := "Unknown"
			if mi, ok := itemMap[li.ItemID]; ok {
				name = mi.Name
			}
			rows = append(rows, ExportRow{
				OrderID:      o.ID,
				UserID:       o.UserID,
				DeliveryDate: o.DeliveryDate.UTC().Format("2006-01-02"),
				Status:       string(o.Status),
				ItemName:     name,
				Quantity:     li.Quantity,
				Extras:       strings.Join(li.Extras, ", "),
				TotalPrice:   o.TotalPrice.InexactFloat64(),
			})
		}
	}

	return rows, c.Name, nil
}

// OrderCountByDeliveryDate groups the day's orders by the company of each
// order's user. Orders whose user or company cannot be resolved land in the
// UnknownCompanyKey bucket with a nil company ID. Buckets preserve
// first-seen order.
func (s *Service) OrderCountByDeliveryDate(ctx context.Context, date time.Time) ([]CompanyCount, error) {
	from, to := DayWindow(date)
	orders, err := s.orders.ListByDeliveryWindow(ctx, from, to)
	if err != nil {
		return nil, errors.Wrap(err, "list orders by delivery date")
	}
	if len(orders) == 0 {
		return nil, &NoOrdersForDateError{Date: from.Format("2006-01-02")}
	}

	userMap, companyMap, err := s.resolveRequesters(ctx, orders)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	var counts []CompanyCount
	for _, o := range orders {
		key := UnknownCompanyKey
		if u, ok := userMap[o.UserID]; ok && u.CompanyID != nil {
			key = *u.CompanyID
		}

		i, seen := index[key]
		if !seen {
			bucket := CompanyCount{CompanyName: UnknownCompanyKey}
			if c, ok := companyMap[key]; ok {
				id := c.ID
				bucket.CompanyID = &id
				bucket.CompanyName = c.Name
			}
			index[key] = len(counts)
			counts = append(counts, bucket)
			i = index[key]
		}
		counts[i].OrderCount++
	}

	return counts, nil
}

// resolveRequesters batch-resolves the users behind a set of orders and the
// companies behind those users.
func (s *Service) resolveRequesters(ctx context.Context, orders []order.Order) (map[string]user.User, map[string]company.Company, error) {
	userIDs := uniqueKeys(orders, func(o order.Order) string { return o.UserID })
	users, err := s.users.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, nil, errors.Wrap(err, "get users")
	}

	userMap := make(map[string]user.User, len(users))
	var companyIDs []string
	seen := make(map[string]struct{})
	for _, u := range users {
		userMap[u.ID] = u
		if u.CompanyID == nil {
			continue
		}
		if _, ok := seen[*u.CompanyID]; !ok {
			seen[*u.CompanyID] = struct{}{}
			companyIDs = append(companyIDs, *u.CompanyID)
		}
	}

	companyMap := make(map[string]company.Company, len(companyIDs))
	if len(companyIDs) > 0 {
		companies, err := s.companies.GetByIDs(ctx, companyIDs)
		if err != nil {
			return nil, nil, errors.Wrap(err, "get companies")
		}
		for _, c := range companies {
			companyMap[c.ID] = c
		}
	}

	return userMap, companyMap, nil
}

// resolveItems batch-resolves every distinct menu item referenced by a set of
// orders.
func (s *Service) resolveItems(ctx context.Context, orders []order.Order) (map[string]catalog.MenuItem, error) {
	var ids []string
	seen := make(map[string]struct{})
	for _, o := range orders {
		for _, li := range o.Items {
			if _, ok := seen[li.ItemID]; !ok {
				seen[li.ItemID] = struct{}{}
				ids = append(ids, li.ItemID)
			}
		}
	}

	itemMap := make(map[string]catalog.MenuItem, len(ids))
	if len(ids) > 0 {
		items, err := s.items.GetByIDs(ctx, ids)
		if err != nil {
			return nil, errors.Wrap(err, "get menu items")
		}
		for _, mi := range items {
			itemMap[mi.ID] = mi
		}
	}

	return itemMap, nil
}

func uniqueKeys(orders []order.Order, key func(order.Order) string) []string {
	seen := make(map[string]struct{}, len(orders))
	keys := make([]string, 0, len(orders))
	for _, o := range orders {
		k := key(o)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}
