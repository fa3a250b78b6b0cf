// Package order turns a finished draft selection into a validated,
// persisted order and the outbound WhatsApp hand-off.
package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/marmitafamilia/ordering/internal/domain/selection"
)

// DefaultCustomerLabel identifies walk-in web orders; the site collects no
// customer name.
const DefaultCustomerLabel = "Cliente via site"

// Order is the submission-time snapshot of a draft. It is created once,
// never mutated, handed to persistence and the message formatter, then
// discarded.
type Order struct {
	ID            string
	CustomerLabel string
	Address       string
	PaymentMethod selection.PaymentMethod
	Subtotal      decimal.Decimal
	DeliveryFee   decimal.Decimal
	Total         decimal.Decimal
	ChangeDue     decimal.NullDecimal
	CashTendered  decimal.NullDecimal
	Details       Details
	CreatedAt     time.Time
}

// Details is the JSON document stored alongside the order row.
type Details struct {
	MealSize    selection.MealSize `json:"meal_size"`
	Quantity    int                `json:"quantity"`
	Proteins    []string           `json:"proteins"`
	Sides       []string           `json:"sides"`
	Salads      []string           `json:"salads"`
	Water       bool               `json:"water"`
	Change      *Change            `json:"change,omitempty"`
	OrderedAt   time.Time          `json:"ordered_at"`
	UnitPrice   decimal.Decimal    `json:"unit_price"`
	DeliveryFee decimal.Decimal    `json:"delivery_fee"`
}

// Change records the cash the customer will hand over and the change the
// courier must bring. Present only when change is due.
type Change struct {
	Tendered decimal.Decimal `json:"tendered"`
	Due      decimal.Decimal `json:"due"`
}

// Repository defines persistence operations for orders.
type Repository interface {
	Create(ctx context.Context, o *Order) error
}
