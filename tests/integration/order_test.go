//go:build integration

package integration

import (
	"net/http"
	"regexp"
	"testing"
	"time"
)

var uuidPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// deliveryDate is shared by the order and report tests so the reports see the
// orders created here.
var deliveryDate = time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")

func TestCreateOrder_MissingFields(t *testing.T) {
	resp := doPost(t, "/api/orders", createOrderRequest{UserID: aishaUserID})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	body := decodeJSON[errorResponse](t, resp)
	if body.Message != "All fields are required" {
		t.Errorf("message: got %q", body.Message)
	}
}

func TestCreateOrder_InvalidDeliveryDate(t *testing.T) {
	resp := doPost(t, "/api/orders", createOrderRequest{
		UserID:        aishaUserID,
		Items:         []orderItemRequest{{ItemID: pizzaItemID, Quantity: 1}},
		PaymentMethod: "card",
		DeliveryDate:  "03/09/2026",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	body := decodeJSON[errorResponse](t, resp)
	if body.Message != "Invalid delivery date format" {
		t.Errorf("message: got %q", body.Message)
	}
}

func TestCreateOrder_UnknownMenuItem(t *testing.T) {
	resp := doPost(t, "/api/orders", createOrderRequest{
		UserID:        aishaUserID,
		Items:         []orderItemRequest{{ItemID: "no-such-item", Quantity: 1}},
		PaymentMethod: "card",
		DeliveryDate:  deliveryDate,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestCreateOrder_UnknownUser(t *testing.T) {
	resp := doPost(t, "/api/orders", createOrderRequest{
		UserID:        "no-such-user",
		Items:         []orderItemRequest{{ItemID: pizzaItemID, Quantity: 1}},
		PaymentMethod: "card",
		DeliveryDate:  deliveryDate,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	body := decodeJSON[errorResponse](t, resp)
	if body.Message != "User not found" {
		t.Errorf("message: got %q", body.Message)
	}
}

func TestCreateOrder_InvalidQuantity(t *testing.T) {
	resp := doPost(t, "/api/orders", createOrderRequest{
		UserID:        aishaUserID,
		Items:         []orderItemRequest{{ItemID: pizzaItemID, Quantity: 0}},
		PaymentMethod: "card",
		DeliveryDate:  deliveryDate,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCreateOrder_Success(t *testing.T) {
	resp := doPost(t, "/api/orders", createOrderRequest{
		UserID: aishaUserID,
		Items: []orderItemRequest{
			{ItemID: pizzaItemID, Quantity: 2, Extras: []string{"extra cheese"}}, // 2x $14.50
			{ItemID: saladItemID, Quantity: 1},                                   // 1x $12.90
		},
		PaymentMethod: "card",
		DeliveryDate:  deliveryDate,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	body := decodeJSON[createOrderResponse](t, resp)
	if body.Message != "Order created successfully" {
		t.Errorf("message: got %q", body.Message)
	}
	if !uuidPattern.MatchString(body.Order.ID) {
		t.Errorf("order ID %q is not a UUID", body.Order.ID)
	}
	if body.TotalPrice != 41.9 {
		t.Errorf("total price: got %v, want 41.9", body.TotalPrice)
	}
	if body.Order.Status != "ordered" {
		t.Errorf("status: got %q, want ordered", body.Order.Status)
	}
	if len(body.Order.Items) != 2 {
		t.Fatalf("items: got %d, want 2", len(body.Order.Items))
	}
	if body.Order.Items[0].ItemName != "Margherita Pizza" {
		t.Errorf("item name: got %q", body.Order.Items[0].ItemName)
	}
}

func TestCreateOrder_NoCompanyUser(t *testing.T) {
	// Erin has no company; the order is still accepted and lands in the
	// Unknown bucket of the count report.
	resp := doPost(t, "/api/orders", createOrderRequest{
		UserID:        erinUserID,
		Items:         []orderItemRequest{{ItemID: saladItemID, Quantity: 1}},
		PaymentMethod: "cash",
		DeliveryDate:  deliveryDate,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
}

func TestMyOrders(t *testing.T) {
	resp := doGet(t, "/api/orders/my?userId="+aishaUserID)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeJSON[struct {
		Message string `json:"message"`
		Orders  []struct {
			UserID string `json:"userId"`
		} `json:"orders"`
	}](t, resp)

	if len(body.Orders) == 0 {
		t.Fatal("expected at least one order")
	}
	for _, o := range body.Orders {
		if o.UserID != aishaUserID {
			t.Errorf("foreign order in my-orders response: user %s", o.UserID)
		}
	}
}

func TestMyOrders_NoOrders(t *testing.T) {
	// Daniel (Globex) never orders in this suite.
	resp := doGet(t, "/api/orders/my?userId=u1a2b3c4-0004-4a00-8000-000000000004")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
