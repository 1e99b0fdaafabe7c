package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/lunchcrew/lunch-api/internal/domain/order"
)

type createOrderRequest struct {
	UserID        string            `json:"userId"`
	Items         []createOrderItem `json:"items"`
	PaymentMethod string            `json:"paymentMethod"`
	DeliveryDate  string            `json:"deliveryDate"`
}

type createOrderItem struct {
	ItemID   string   `json:"itemId"`
	Quantity int      `json:"quantity"`
	Extras   []string `json:"extras"`
}

type enrichedItemResponse struct {
	ItemID   string   `json:"itemId"`
	ItemName string   `json:"itemName"`
	Quantity int      `json:"quantity"`
	Extras   []string `json:"extras"`
}

type createdOrderResponse struct {
	ID            string                 `json:"id"`
	UserID        string                 `json:"userId"`
	Items         []enrichedItemResponse `json:"items"`
	TotalPrice    float64                `json:"totalPrice"`
	PaymentMethod string                 `json:"paymentMethod"`
	PaymentStatus string                 `json:"paymentStatus"`
	DeliveryDate  time.Time              `json:"deliveryDate"`
	Status        string                 `json:"status"`
	CreatedAt     time.Time              `json:"createdAt"`
	UpdatedAt     time.Time              `json:"updatedAt"`
}

type createOrderResponse struct {
	Message    string               `json:"message"`
	Order      createdOrderResponse `json:"order"`
	TotalPrice float64              `json:"totalPrice"`
}

// CreateOrder handles POST /api/orders.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var deliveryDate time.Time
	if req.DeliveryDate != "" {
		var err error
		deliveryDate, err = parseDeliveryDate(req.DeliveryDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid delivery date format")
			return
		}
	}

	items := make([]order.LineRequest, len(req.Items))
	for i, it := range req.Items {
		items[i] = order.LineRequest{
			ItemID:   it.ItemID,
			Quantity: it.Quantity,
			Extras:   it.Extras,
		}
	}

	result, err := h.orders.Create(r.Context(), order.CreateRequest{
		UserID:        req.UserID,
		Items:         items,
		PaymentMethod: req.PaymentMethod,
		DeliveryDate:  deliveryDate,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	enriched := make([]enrichedItemResponse, len(result.Items))
	for i, e := range result.Items {
		enriched[i] = enrichedItemResponse{
			ItemID:   e.ItemID,
			ItemName: e.ItemName,
			Quantity: e.Quantity,
			Extras:   e.Extras,
		}
	}

	o := result.Order
	total := o.TotalPrice.InexactFloat64()
	writeJSON(w, http.StatusCreated, createOrderResponse{
		Message: "Order created successfully",
		Order: createdOrderResponse{
			ID:            o.ID,
			UserID:        o.UserID,
			Items:         enriched,
			TotalPrice:    total,
			PaymentMethod: o.PaymentMethod,
			PaymentStatus: string(o.PaymentStatus),
			DeliveryDate:  o.DeliveryDate,
			Status:        string(o.Status),
			CreatedAt:     o.CreatedAt,
			UpdatedAt:     o.UpdatedAt,
		},
		TotalPrice: total,
	})
}
