// Package selection holds the draft order a customer is composing: meal size,
// quantity, chosen proteins, sides and salads, the water add-on, payment
// method and delivery address. A Draft is a value; every update operation
// returns a new Draft and leaves the receiver untouched, so callers can keep
// snapshots without defensive copying.
package selection

import (
	"regexp"
	"slices"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// MealSize identifies one of the two order units.
type MealSize string

const (
	MealSizeMedium MealSize = "media"
	MealSizeLarge  MealSize = "grande"
)

// Valid reports whether s is one of the known sizes.
func (s MealSize) Valid() bool {
	return s == MealSizeMedium || s == MealSizeLarge
}

// ProteinCapacity is the exact number of proteins an order of this size
// must carry: one for medium, two for large.
func (s MealSize) ProteinCapacity() int {
	if s == MealSizeLarge {
		return 2
	}
	return 1
}

// Label returns the display name used in summaries and messages.
func (s MealSize) Label() string {
	if s == MealSizeLarge {
		return "Grande"
	}
	return "Média"
}

// PaymentMethod identifies how the customer will pay.
type PaymentMethod string

const (
	PaymentPix  PaymentMethod = "pix"
	PaymentCash PaymentMethod = "dinheiro"
)

// Valid reports whether m is one of the known methods.
func (m PaymentMethod) Valid() bool {
	return m == PaymentPix || m == PaymentCash
}

// Label returns the display name used in summaries and messages.
func (m PaymentMethod) Label() string {
	if m == PaymentPix {
		return "PIX"
	}
	return "Dinheiro"
}

// Sentinel errors for update operations that reject their input.
var (
	ErrInvalidMealSize      = errors.New("invalid meal size")
	ErrInvalidQuantity      = errors.New("quantity must be a non-negative integer")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrMalformedAmount      = errors.New("malformed cash amount")
)

// cashAmountPattern mirrors the input mask applied in the payment form:
// digits with at most one decimal point, nothing else.
var cashAmountPattern = regexp.MustCompile(`^\d*\.?\d*$`)

// Draft is the in-session state of one order being composed.
//
// UnitPrice and WaterPrice mirror the catalog prices at the moment of
// selection; they are deliberately not refreshed if the catalog changes
// later in the same session. Proteins keeps insertion order because the
// capacity rule evicts the oldest selection, and because summaries list
// items in the order they were picked.
type Draft struct {
	MealSize      MealSize
	Quantity      int
	UnitPrice     decimal.Decimal
	Proteins      []string
	Sides         []string
	Salads        []string
	Water         bool
	WaterPrice    decimal.Decimal
	PaymentMethod PaymentMethod
	CashTendered  decimal.NullDecimal
	Address       string
}

// NewDraft returns the empty default draft: one medium meal, PIX payment,
// no items selected. mediumPrice and waterPrice are the catalog prices in
// effect when the session started.
func NewDraft(mediumPrice, waterPrice decimal.Decimal) Draft {
	return Draft{
		MealSize:      MealSizeMedium,
		Quantity:      1,
		UnitPrice:     mediumPrice,
		WaterPrice:    waterPrice,
		PaymentMethod: PaymentPix,
	}
}

// WithMealSize sets the size and the matching unit price. The protein
// selection is left as-is even when the new size holds fewer proteins;
// whether to shrink it is the caller's policy (see TruncateProteins).
func (d Draft) WithMealSize(size MealSize, unitPrice decimal.Decimal) (Draft, error) {
	if !size.Valid() {
		return d, ErrInvalidMealSize
	}
	d.MealSize = size
	d.UnitPrice = unitPrice
	return d, nil
}

// TruncateProteins drops proteins beyond the current size's capacity,
// keeping the earliest selections. This is the auto-truncating variant of
// the size-shrink behavior; WithMealSize itself never truncates.
func TruncateProteins(d Draft) Draft {
	cap := d.MealSize.ProteinCapacity()
	if len(d.Proteins) > cap {
		d.Proteins = slices.Clone(d.Proteins[:cap])
	}
	return d
}

// WithQuantity sets the quantity. Negative values are rejected; zero is
// accepted and represents the transient "cleared input" state, which the
// validator reports as invalid rather than coercing it to one.
func (d Draft) WithQuantity(n int) (Draft, error) {
	if n < 0 {
		return d, ErrInvalidQuantity
	}
	d.Quantity = n
	return d, nil
}

// ToggleProtein adds or removes a protein. Toggling a selected item removes
// it. Adding at capacity evicts the oldest selection (ring-buffer style),
// except at capacity one where the new item simply replaces the sole pick.
func (d Draft) ToggleProtein(name string) Draft {
	if i := slices.Index(d.Proteins, name); i >= 0 {
		d.Proteins = slices.Delete(slices.Clone(d.Proteins), i, i+1)
		return d
	}

	cap := d.MealSize.ProteinCapacity()
	switch {
	case len(d.Proteins) < cap:
		d.Proteins = append(slices.Clone(d.Proteins), name)
	case cap == 1:
		d.Proteins = []string{name}
	default:
		d.Proteins = append(slices.Clone(d.Proteins[1:]), name)
	}
	return d
}

// ToggleSide adds or removes a side dish. Sides are unbounded.
func (d Draft) ToggleSide(name string) Draft {
	d.Sides = toggle(d.Sides, name)
	return d
}

// ToggleSalad adds or removes a salad. Salads are unbounded.
func (d Draft) ToggleSalad(name string) Draft {
	d.Salads = toggle(d.Salads, name)
	return d
}

// WithWater sets the water jug add-on flag.
func (d Draft) WithWater(enabled bool) Draft {
	d.Water = enabled
	return d
}

// WithPaymentMethod sets the payment method. Switching to cash initializes
// the tendered amount to the current total so the change due starts at
// zero; switching to PIX clears it, since change is only defined for cash.
func (d Draft) WithPaymentMethod(method PaymentMethod, total decimal.Decimal) (Draft, error) {
	if !method.Valid() {
		return d, ErrInvalidPaymentMethod
	}
	if method == PaymentCash && d.PaymentMethod != PaymentCash {
		d.CashTendered = decimal.NewNullDecimal(total)
	}
	if method == PaymentPix {
		d.CashTendered = decimal.NullDecimal{}
	}
	d.PaymentMethod = method
	return d, nil
}

// WithCashTendered parses the raw amount the customer says they will pay
// with. Only unsigned decimal strings are accepted; anything else is
// rejected with ErrMalformedAmount and the draft is returned unchanged.
func (d Draft) WithCashTendered(raw string) (Draft, error) {
	if raw == "" || raw == "." || !cashAmountPattern.MatchString(raw) {
		return d, ErrMalformedAmount
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return d, ErrMalformedAmount
	}
	d.CashTendered = decimal.NewNullDecimal(amount)
	return d, nil
}

// WithAddress sets the free-text delivery address.
func (d Draft) WithAddress(text string) Draft {
	d.Address = text
	return d
}

func toggle(items []string, name string) []string {
	if i := slices.Index(items, name); i >= 0 {
		return slices.Delete(slices.Clone(items), i, i+1)
	}
	return append(slices.Clone(items), name)
}
