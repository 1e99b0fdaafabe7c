package handler

import (
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/lunchcrew/lunch-api/internal/domain/order"
	"github.com/lunchcrew/lunch-api/internal/domain/report"
	"github.com/lunchcrew/lunch-api/internal/export"
)

type companyResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Address       string `json:"address"`
	ContactNumber string `json:"contactNumber"`
}

type orderUserResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	FullName    string           `json:"fullName"`
	Email       string           `json:"email"`
	PhoneNumber string           `json:"phoneNumber"`
	Company     *companyResponse `json:"company"`
}

type orderItemResponse struct {
	ItemID   string   `json:"itemId"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Quantity int      `json:"quantity"`
	Extras   []string `json:"extras"`
}

type orderViewResponse struct {
	OrderID       string              `json:"orderId"`
	User          orderUserResponse   `json:"user"`
	Items         []orderItemResponse `json:"items"`
	TotalPrice    float64             `json:"totalPrice"`
	PaymentMethod string              `json:"paymentMethod"`
	PaymentStatus string              `json:"paymentStatus"`
	DeliveryDate  time.Time           `json:"deliveryDate"`
	Status        string              `json:"status"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

type listOrdersResponse struct {
	Message string              `json:"message"`
	Orders  []orderViewResponse `json:"orders"`
}

// ListOrders handles GET /api/orders.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	views, err := h.reports.ListOrders(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	orders := make([]orderViewResponse, len(views))
	for i, v := range views {
		items := make([]orderItemResponse, len(v.Items))
		for j, it := range v.Items {
			items[j] = orderItemResponse{
				ItemID:   it.ItemID,
				Name:     it.Name,
				Price:    it.Price.InexactFloat64(),
				Quantity: it.Quantity,
				Extras:   it.Extras,
			}
		}

		u := orderUserResponse{
			ID:          v.User.ID,
			Name:        v.User.Name,
			FullName:    v.User.FullName,
			Email:       v.User.Email,
			PhoneNumber: v.User.PhoneNumber,
		}
		if c := v.User.Company; c != nil {
			u.Company = &companyResponse{
				ID:            c.ID,
				Name:          c.Name,
				Address:       c.Address,
				ContactNumber: c.ContactNumber,
			}
		}

		orders[i] = orderViewResponse{
			OrderID:       v.OrderID,
			User:          u,
			Items:         items,
			TotalPrice:    v.TotalPrice.InexactFloat64(),
			PaymentMethod: v.PaymentMethod,
			PaymentStatus: string(v.PaymentStatus),
			DeliveryDate:  v.DeliveryDate,
			Status:        string(v.Status),
			CreatedAt:     v.CreatedAt,
			UpdatedAt:     v.UpdatedAt,
		}
	}

	writeJSON(w, http.StatusOK, listOrdersResponse{
		Message: "Orders fetched successfully",
		Orders:  orders,
	})
}

type weekdayRevenueResponse struct {
	Day          string  `json:"day"`
	TotalRevenue float64 `json:"totalRevenue"`
}

type recentOrderResponse struct {
	EmployeeName string    `json:"employeeName"`
	EmailAddress string    `json:"emailAddress"`
	PhoneNumber  string    `json:"phoneNumber"`
	CompanyName  string    `json:"companyName"`
	CreatedAt    time.Time `json:"createdAt"`
}

type insightResponse struct {
	NumberOfOrdersToday     int64                    `json:"numberOfOrdersToday"`
	NumberOfOrdersThisWeek  int64                    `json:"numberOfOrdersThisWeek"`
	NumberOfOrdersThisMonth int64                    `json:"numberOfOrdersThisMonth"`
	TotalRevenue            float64                  `json:"totalRevenue"`
	TotalCompanies          int64                    `json:"totalCompanies"`
	TotalEmployees          int64                    `json:"totalEmployees"`
	RecentOrders            []recentOrderResponse    `json:"recentOrders"`
	AverageReview           float64                  `json:"averageReview"`
	ReviewCount             int64                    `json:"reviewCount"`
	WeeklyRevenueBreakdown  []weekdayRevenueResponse `json:"weeklyRevenueBreakdown"`
}

// OrderInsight handles GET /api/orders/insight.
func (h *Handler) OrderInsight(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.reports.Insight(r.Context(), h.now())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	weekly := make([]weekdayRevenueResponse, len(snapshot.WeeklyRevenue))
	for i, b := range snapshot.WeeklyRevenue {
		weekly[i] = weekdayRevenueResponse{
			Day:          b.Day,
			TotalRevenue: b.TotalRevenue.InexactFloat64(),
		}
	}

	recent := make([]recentOrderResponse, len(snapshot.RecentOrders))
	for i, ro := range snapshot.RecentOrders {
		recent[i] = recentOrderResponse(ro)
	}

	writeJSON(w, http.StatusOK, insightResponse{
		NumberOfOrdersToday:     snapshot.OrdersToday,
		NumberOfOrdersThisWeek:  snapshot.OrdersThisWeek,
		NumberOfOrdersThisMonth: snapshot.OrdersThisMonth,
		TotalRevenue:            snapshot.TotalRevenue.InexactFloat64(),
		TotalCompanies:          snapshot.TotalCompanies,
		TotalEmployees:          snapshot.TotalEmployees,
		RecentOrders:            recent,
		AverageReview:           snapshot.AverageReview,
		ReviewCount:             snapshot.ReviewCount,
		WeeklyRevenueBreakdown:  weekly,
	})
}

type rawOrderResponse struct {
	ID            string            `json:"id"`
	UserID        string            `json:"userId"`
	Items         []createOrderItem `json:"items"`
	TotalPrice    float64           `json:"totalPrice"`
	PaymentMethod string            `json:"paymentMethod"`
	PaymentStatus string            `json:"paymentStatus"`
	DeliveryDate  time.Time         `json:"deliveryDate"`
	Status        string            `json:"status"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

func toRawOrders(orders []order.Order) []rawOrderResponse {
	out := make([]rawOrderResponse, len(orders))
	for i, o := range orders {
		items := make([]createOrderItem, len(o.Items))
		for j, li := range o.Items {
			items[j] = createOrderItem{
				ItemID:   li.ItemID,
				Quantity: li.Quantity,
				Extras:   li.Extras,
			}
		}
		out[i] = rawOrderResponse{
			ID:            o.ID,
			UserID:        o.UserID,
			Items:         items,
			TotalPrice:    o.TotalPrice.InexactFloat64(),
			PaymentMethod: o.PaymentMethod,
			PaymentStatus: string(o.PaymentStatus),
			DeliveryDate:  o.DeliveryDate,
			Status:        string(o.Status),
			CreatedAt:     o.CreatedAt,
			UpdatedAt:     o.UpdatedAt,
		}
	}
	return out
}

type myOrdersResponse struct {
	Message string             `json:"message"`
	Orders  []rawOrderResponse `json:"orders"`
}

// MyOrders handles GET /api/orders/my?userId=.
func (h *Handler) MyOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.reports.MyOrders(r.Context(), r.URL.Query().Get("userId"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, myOrdersResponse{
		Message: "Orders fetched successfully",
		Orders:  toRawOrders(orders),
	})
}

type companyOrdersResponse struct {
	CompanyName string             `json:"companyName"`
	OrderCount  int                `json:"orderCount"`
	Orders      []rawOrderResponse `json:"orders"`
}

// CompaniesWithOrderCounts handles GET /api/companies/orders.
func (h *Handler) CompaniesWithOrderCounts(w http.ResponseWriter, r *http.Request) {
	grouped, err := h.reports.CompaniesWithOrderCounts(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	result := make([]companyOrdersResponse, len(grouped))
	for i, g := range grouped {
		result[i] = companyOrdersResponse{
			CompanyName: g.CompanyName,
			OrderCount:  g.OrderCount,
			Orders:      toRawOrders(g.Orders),
		}
	}

	writeJSON(w, http.StatusOK, result)
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// ExportOrdersByCompanyAndDate handles GET /api/orders/export?companyId=&deliveryDate=.
// On success the response body is an xlsx attachment, not JSON.
func (h *Handler) ExportOrdersByCompanyAndDate(w http.ResponseWriter, r *http.Request) {
	companyID := r.URL.Query().Get("companyId")
	if companyID == "" {
		writeError(w, http.StatusBadRequest, "Company ID is required")
		return
	}
	rawDate := r.URL.Query().Get("deliveryDate")
	if rawDate == "" {
		writeError(w, http.StatusBadRequest, "Delivery date is required")
		return
	}
	date, err := parseDeliveryDate(rawDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid delivery date format")
		return
	}

	rows, companyName, err := h.reports.OrdersByCompanyAndDate(r.Context(), companyID, date)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	filename := fmt.Sprintf("orders_summary_%s_%s.xlsx",
		whitespaceRe.ReplaceAllString(companyName, "_"), rawDate)

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	if err := export.WriteOrdersSummary(w, rows); err != nil {
		// Headers are already sent; the most we can do is log.
		zctx.From(r.Context()).Error("write orders export", zap.Error(err))
	}
}

type companyCountResponse struct {
	CompanyID   *string `json:"companyId"`
	CompanyName string  `json:"companyName"`
	OrderCount  int     `json:"orderCount"`
}

type orderCountsResponse struct {
	Message      string                 `json:"message"`
	DeliveryDate string                 `json:"deliveryDate"`
	Counts       []companyCountResponse `json:"counts"`
}

// OrderCountByDeliveryDate handles GET /api/orders/count?deliveryDate=.
func (h *Handler) OrderCountByDeliveryDate(w http.ResponseWriter, r *http.Request) {
	rawDate := r.URL.Query().Get("deliveryDate")
	if rawDate == "" {
		writeError(w, http.StatusBadRequest, "Delivery date is required")
		return
	}
	date, err := parseDeliveryDate(rawDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid delivery date format")
		return
	}

	counts, err := h.reports.OrderCountByDeliveryDate(r.Context(), date)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	result := make([]companyCountResponse, len(counts))
	for i, c := range counts {
		result[i] = companyCountResponse(c)
	}

	from, _ := report.DayWindow(date)
	writeJSON(w, http.StatusOK, orderCountsResponse{
		Message:      "Order counts retrieved successfully",
		DeliveryDate: from.Format("2006-01-02"),
		Counts:       result,
	})
}
