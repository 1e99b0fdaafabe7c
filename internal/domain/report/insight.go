package report

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// weekdayNames indexes time.Weekday (Sunday = 0) to bucket labels.
var weekdayNames = [7]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

const recentOrdersLimit = 5

// Insight computes the business-overview snapshot as of now, in now's
// location. The week starts on Sunday; all seven buckets are always present
// and days without orders report zero revenue.
func (s *Service) Insight(ctx context.Context, now time.Time) (*Insight, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfWeek := today.AddDate(0, 0, -int(today.Weekday()))
	endOfWeek := startOfWeek.AddDate(0, 0, 7)
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	endOfMonth := startOfMonth.AddDate(0, 1, 0)

	revenueByDay, err := s.orders.RevenueByWeekday(ctx, startOfWeek, endOfWeek)
	if err != nil {
		return nil, errors.Wrap(err, "weekly revenue")
	}
	weekly := make([]WeekdayRevenue, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		revenue, ok := revenueByDay[d]
		if !ok {
			revenue = decimal.Zero
		}
		weekly[d] = WeekdayRevenue{Day: weekdayNames[d], TotalRevenue: revenue}
	}

	ordersToday, err := s.orders.CountCreatedBetween(ctx, today, today.AddDate(0, 0, 1))
	if err != nil {
		return nil, errors.Wrap(err, "count orders today")
	}
	ordersThisWeek, err := s.orders.CountCreatedBetween(ctx, startOfWeek, endOfWeek)
	if err != nil {
		return nil, errors.Wrap(err, "count orders this week")
	}
	ordersThisMonth, err := s.orders.CountCreatedBetween(ctx, startOfMonth, endOfMonth)
	if err != nil {
		return nil, errors.Wrap(err, "count orders this month")
	}

	totalRevenue, err := s.orders.TotalRevenue(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "total revenue")
	}
	totalCompanies, err := s.companies.Count(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "count companies")
	}
	totalEmployees, err := s.users.Count(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "count users")
	}

	recent, err := s.recentOrders(ctx)
	if err != nil {
		return nil, err
	}

	stats, err := s.feedback.Stats(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "feedback stats")
	}

	return &Insight{
		OrdersToday:     ordersToday,
		OrdersThisWeek:  ordersThisWeek,
		OrdersThisMonth: ordersThisMonth,
		TotalRevenue:    totalRevenue,
		TotalCompanies:  totalCompanies,
		TotalEmployees:  totalEmployees,
		RecentOrders:    recent,
		AverageReview:   stats.AverageRating,
		ReviewCount:     stats.ReviewCount,
		WeeklyRevenue:   weekly,
	}, nil
}

// recentOrders reduces the five most recently created orders to requester
// contact details, substituting "N/A" for any unresolved reference.
func (s *Service) recentOrders(ctx context.Context) ([]RecentOrder, error) {
	orders, err := s.orders.ListRecent(ctx, recentOrdersLimit)
	if err != nil {
		return nil, errors.Wrap(err, "recent orders")
	}

	userMap, companyMap, err := s.resolveRequesters(ctx, orders)
	if err != nil {
		return nil, err
	}

	recent := make([]RecentOrder, len(orders))
	for i, o := range orders {
		r := RecentOrder{
			EmployeeName: unresolvedPlaceholder,
			EmailAddress: unresolvedPlaceholder,
			PhoneNumber:  unresolvedPlaceholder,
			CompanyName:  unresolvedPlaceholder,
			CreatedAt:    o.CreatedAt,
		}
		if u, ok := userMap[o.UserID]; ok {
			r.EmployeeName = orPlaceholder(u.FullName)
			r.EmailAddress = orPlaceholder(u.Email)
			r.PhoneNumber = orPlaceholder(u.PhoneNumber)
			if u.CompanyID != nil {
				if c, ok := companyMap[*u.CompanyID]; ok {
					r.CompanyName = orPlaceholder(c.Name)
				}
			}
		}
		recent[i] = r
	}

	return recent, nil
}

func orPlaceholder(s string) string {
	if s == "" {
		return unresolvedPlaceholder
	}
	return s
}
