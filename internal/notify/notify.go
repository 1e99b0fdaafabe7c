// Package notify delivers outbound customer notifications. The order service
// depends only on the Notifier interface, so the SMTP transport stays an
// injectable capability rather than process-wide state.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ConfirmationLine is one itemized row in a confirmation message.
type ConfirmationLine struct {
	ItemName string
	Quantity int
}

// Confirmation carries everything needed to render and send an order
// confirmation message.
type Confirmation struct {
	To           string
	FullName     string
	OrderID      string
	TotalPrice   decimal.Decimal
	DeliveryDate time.Time
	Lines        []ConfirmationLine
}

// Notifier sends order confirmations. Implementations must be safe for
// concurrent use.
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, c Confirmation) error
}

// Nop is a Notifier that discards every message. Used when no SMTP
// credentials are configured.
type Nop struct{}

func (Nop) SendOrderConfirmation(context.Context, Confirmation) error { return nil }

const confirmationSubject = "Order Confirmation"

// confirmationBody renders the plain-text confirmation message.
func confirmationBody(c Confirmation) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hello %s,\n\n", c.FullName)
	b.WriteString("Thank you for your order! Here are your order details:\n\n")
	fmt.Fprintf(&b, "Order ID: %s\n", c.OrderID)
	fmt.Fprintf(&b, "Total Price: $%s\n", c.TotalPrice.StringFixed(2))
	fmt.Fprintf(&b, "Delivery Date: %s\n\n", c.DeliveryDate.Format("2006-01-02"))
	b.WriteString("Items Ordered:\n")
	for i, line := range c.Lines {
		fmt.Fprintf(&b, "%d. %d x %s\n", i+1, line.Quantity, line.ItemName)
	}
	b.WriteString("\nWe hope you enjoy your meal!\n\nBest regards,\nThe Lunchcrew Team\n")

	return b.String()
}
