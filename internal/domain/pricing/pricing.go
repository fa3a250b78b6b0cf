// Package pricing computes order money amounts from a draft selection.
// All functions are pure and keep full decimal precision; rounding to two
// places happens only at formatting and persistence boundaries, never here,
// so it cannot compound across subtotal, total and the outbound message.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/marmitafamilia/ordering/internal/domain/selection"
)

// Subtotal is unit price times quantity, plus the water jug when selected.
func Subtotal(d selection.Draft) decimal.Decimal {
	sum := d.UnitPrice.Mul(decimal.NewFromInt(int64(d.Quantity)))
	if d.Water {
		sum = sum.Add(d.WaterPrice)
	}
	return sum
}

// Total is the subtotal plus the delivery fee.
func Total(d selection.Draft, deliveryFee decimal.Decimal) decimal.Decimal {
	return Subtotal(d).Add(deliveryFee)
}

// ChangeDue is the excess of the cash tendered over the total. It is defined
// only for cash payment with a tendered amount strictly above the total;
// paying exactly the total yields no change line at all.
func ChangeDue(d selection.Draft, total decimal.Decimal) decimal.NullDecimal {
	if d.PaymentMethod != selection.PaymentCash || !d.CashTendered.Valid {
		return decimal.NullDecimal{}
	}
	if d.CashTendered.Decimal.LessThanOrEqual(total) {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d.CashTendered.Decimal.Sub(total))
}

// Breakdown is the full pricing picture for one draft, recomputed on every
// state change.
type Breakdown struct {
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	Total       decimal.Decimal
	ChangeDue   decimal.NullDecimal
}

// Compute evaluates all amounts for the draft against the given delivery fee.
func Compute(d selection.Draft, deliveryFee decimal.Decimal) Breakdown {
	total := Total(d, deliveryFee)
	return Breakdown{
		Subtotal:    Subtotal(d),
		DeliveryFee: deliveryFee,
		Total:       total,
		ChangeDue:   ChangeDue(d, total),
	}
}
