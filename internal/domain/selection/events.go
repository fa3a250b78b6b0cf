package selection

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// EventType discriminates selection events arriving from the client.
type EventType string

const (
	EventSetMealSize      EventType = "set_meal_size"
	EventSetQuantity      EventType = "set_quantity"
	EventToggleProtein    EventType = "toggle_protein"
	EventToggleSide       EventType = "toggle_side"
	EventToggleSalad      EventType = "toggle_salad"
	EventSetWater         EventType = "set_water"
	EventSetPaymentMethod EventType = "set_payment_method"
	EventSetCashTendered  EventType = "set_cash_tendered"
	EventSetAddress       EventType = "set_address"
)

// ErrUnknownEvent is returned by Apply for an unrecognized event type.
var ErrUnknownEvent = errors.New("unknown event type")

// Event is one discrete user action on the draft. Only the fields relevant
// to the Type are read; the rest are ignored.
type Event struct {
	Type     EventType     `json:"type"`
	Size     MealSize      `json:"size,omitempty"`
	Quantity *int          `json:"quantity,omitempty"`
	Name     string        `json:"name,omitempty"`
	Enabled  *bool         `json:"enabled,omitempty"`
	Method   PaymentMethod `json:"method,omitempty"`
	Amount   string        `json:"amount,omitempty"`
	Address  string        `json:"address,omitempty"`
}

// Env carries the catalog and pricing context an event may need: the unit
// prices for each size and the current order total (used to initialize the
// cash tender when the customer switches to cash).
type Env struct {
	MediumPrice decimal.Decimal
	LargePrice  decimal.Decimal
	Total       decimal.Decimal
}

// PriceFor returns the unit price for the given size.
func (e Env) PriceFor(size MealSize) decimal.Decimal {
	if size == MealSizeLarge {
		return e.LargePrice
	}
	return e.MediumPrice
}

// Apply reduces one event onto the draft and returns the next state. A
// rejected event (malformed amount, unknown size, negative quantity) leaves
// the draft unchanged and reports why.
func Apply(d Draft, ev Event, env Env) (Draft, error) {
	switch ev.Type {
	case EventSetMealSize:
		return d.WithMealSize(ev.Size, env.PriceFor(ev.Size))
	case EventSetQuantity:
		if ev.Quantity == nil {
			// Cleared input field: transient zero, caught by validation.
			return d.WithQuantity(0)
		}
		return d.WithQuantity(*ev.Quantity)
	case EventToggleProtein:
		return d.ToggleProtein(ev.Name), nil
	case EventToggleSide:
		return d.ToggleSide(ev.Name), nil
	case EventToggleSalad:
		return d.ToggleSalad(ev.Name), nil
	case EventSetWater:
		return d.WithWater(ev.Enabled != nil && *ev.Enabled), nil
	case EventSetPaymentMethod:
		return d.WithPaymentMethod(ev.Method, env.Total)
	case EventSetCashTendered:
		return d.WithCashTendered(ev.Amount)
	case EventSetAddress:
		return d.WithAddress(ev.Address), nil
	default:
		return d, errors.Wrapf(ErrUnknownEvent, "%q", ev.Type)
	}
}
