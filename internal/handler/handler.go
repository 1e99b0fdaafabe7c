// Package handler exposes the HTTP surface of the service. Handlers decode
// the request, delegate to the order and reporting services, and map domain
// errors to status codes in one place.
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/lunchcrew/lunch-api/internal/domain/company"
	"github.com/lunchcrew/lunch-api/internal/domain/order"
	"github.com/lunchcrew/lunch-api/internal/domain/report"
	"github.com/lunchcrew/lunch-api/internal/domain/user"
)

// Handler routes HTTP requests to the order and reporting services.
type Handler struct {
	orders  *order.Service
	reports *report.Service
	now     func() time.Time
}

// NewHandler constructs a Handler. now supplies the clock for the insight
// snapshot; pass nil for time.Now.
func NewHandler(orders *order.Service, reports *report.Service, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{
		orders:  orders,
		reports: reports,
		now:     now,
	}
}

// Register attaches all API routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/orders", h.CreateOrder)
	mux.HandleFunc("GET /api/orders", h.ListOrders)
	mux.HandleFunc("GET /api/orders/insight", h.OrderInsight)
	mux.HandleFunc("GET /api/orders/my", h.MyOrders)
	mux.HandleFunc("GET /api/orders/count", h.OrderCountByDeliveryDate)
	mux.HandleFunc("GET /api/orders/export", h.ExportOrdersByCompanyAndDate)
	mux.HandleFunc("GET /api/companies/orders", h.CompaniesWithOrderCounts)
}

// errorBody is the JSON error envelope. Detail is only set for internal
// errors.
type errorBody struct {
	Message string `json:"message"`
	Detail  string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Message: message})
}

// writeDomainError maps a domain error to its status code and body. The
// taxonomy: validation errors are 400, missing entities and empty result sets
// are 404, anything else is a 500 with the wrapped detail.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		quantityErr *order.InvalidQuantityError
		itemErr     *order.MenuItemNotFoundError
		companyErr  *report.CompanyNotFoundError
		usersErr    *report.NoUsersForCompanyError
		ordersErr   *report.NoOrdersForDateError
	)

	switch {
	case errors.Is(err, order.ErrMissingFields):
		writeError(w, http.StatusBadRequest, "All fields are required")
	case errors.As(err, &quantityErr):
		writeError(w, http.StatusBadRequest, quantityErr.Error())
	case errors.As(err, &itemErr):
		writeError(w, http.StatusNotFound, itemErr.Error())
	case errors.Is(err, user.ErrNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, company.ErrNotFound), errors.As(err, &companyErr):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &usersErr), errors.As(err, &ordersErr):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, report.ErrNoOrders):
		writeError(w, http.StatusNotFound, "No orders found")
	case errors.Is(err, report.ErrNoOrdersUser):
		writeError(w, http.StatusNotFound, "No orders found for this user")
	case errors.Is(err, report.ErrNoCompanies):
		writeError(w, http.StatusNotFound, "No companies found")
	default:
		zctx.From(r.Context()).Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, errorBody{
			Message: "Internal server error",
			Detail:  err.Error(),
		})
	}
}

// parseDeliveryDate accepts a calendar date (2006-01-02) or an RFC 3339
// timestamp.
func parseDeliveryDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, errors.Errorf("invalid delivery date %q", s)
}
