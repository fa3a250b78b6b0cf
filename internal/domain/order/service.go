package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marmitafamilia/ordering/internal/domain/pricing"
	"github.com/marmitafamilia/ordering/internal/domain/selection"
)

// SubmitRequest is everything the coordinator needs for one submission: the
// draft as composed, the delivery fee in effect, and the restaurant phone
// from settings.
type SubmitRequest struct {
	Draft       selection.Draft
	DeliveryFee decimal.Decimal
	Phone       string
}

// SubmitResult is the outcome of a successful submission.
type SubmitResult struct {
	Order       *Order
	Message     string
	RedirectURL string
}

// Service coordinates submission: recompute totals, validate, persist,
// format the outbound message, build the redirect target. It is the only
// component here with side effects.
type Service struct {
	orders  Repository
	baseURL string
	now     func() time.Time
	newID   func() string
}

// NewService creates the submission coordinator. waBaseURL is the chat
// deep-link base (https://wa.me in production).
func NewService(orders Repository, waBaseURL string) *Service {
	return &Service{
		orders:  orders,
		baseURL: waBaseURL,
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
}

// Submit runs the submission sequence. On a validation failure it stops
// before any external call and returns a *ValidationError carrying the
// first violation. On a persistence failure it returns the wrapped error
// and produces no redirect: a failed save must never silently hand the
// customer off to WhatsApp with no record behind it.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	prices := pricing.Compute(req.Draft, req.DeliveryFee)

	if violations := Validate(req.Draft, prices.Total); len(violations) > 0 {
		return nil, &ValidationError{Code: violations[0]}
	}

	o := snapshot(req.Draft, prices, s.newID(), s.now())

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	msg := FormatMessage(o)
	return &SubmitResult{
		Order:       o,
		Message:     msg,
		RedirectURL: RedirectURL(MessageConfig{BaseURL: s.baseURL, Phone: req.Phone}, msg),
	}, nil
}

// snapshot freezes the draft into an immutable order. Amounts are rounded
// to two places here, the persistence boundary.
func snapshot(d selection.Draft, prices pricing.Breakdown, id string, now time.Time) *Order {
	var change *Change
	changeDue := prices.ChangeDue
	if changeDue.Valid {
		changeDue.Decimal = changeDue.Decimal.Round(2)
		change = &Change{
			Tendered: d.CashTendered.Decimal.Round(2),
			Due:      changeDue.Decimal,
		}
	}

	fee := prices.DeliveryFee.Round(2)
	return &Order{
		ID:            id,
		CustomerLabel: DefaultCustomerLabel,
		Address:       d.Address,
		PaymentMethod: d.PaymentMethod,
		Subtotal:      prices.Subtotal.Round(2),
		DeliveryFee:   fee,
		Total:         prices.Total.Round(2),
		ChangeDue:     changeDue,
		CashTendered:  d.CashTendered,
		CreatedAt:     now,
		Details: Details{
			MealSize:    d.MealSize,
			Quantity:    d.Quantity,
			Proteins:    d.Proteins,
			Sides:       d.Sides,
			Salads:      d.Salads,
			Water:       d.Water,
			Change:      change,
			OrderedAt:   now,
			UnitPrice:   d.UnitPrice,
			DeliveryFee: fee,
		},
	}
}
