// Package catalog defines the menu items and restaurant settings the
// ordering flow consumes. Both are owned by external administration; the
// core receives them as read-only snapshots at computation time.
package catalog

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Kind classifies a catalog item.
type Kind string

const (
	KindProtein Kind = "proteina"
	KindSide    Kind = "acompanhamento"
	KindSalad   Kind = "salada"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindProtein || k == KindSide || k == KindSalad
}

// ErrNotFound is returned when a referenced catalog item does not exist.
var ErrNotFound = errors.New("catalog item not found")

// Item is one selectable menu entry. Inactive items stay in the catalog but
// are hidden from customers.
type Item struct {
	ID     string `json:"id"`
	Kind   Kind   `json:"kind"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// Repository defines persistence operations for catalog items.
type Repository interface {
	ListActive(ctx context.Context, kind Kind) ([]Item, error)
	ListAll(ctx context.Context) ([]Item, error)
	Create(ctx context.Context, item Item) (string, error)
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

// Setting keys stored in the key-value settings table.
const (
	KeyPriceMedium       = "price_medium"
	KeyPriceLarge        = "price_large"
	KeyPriceWater        = "price_water"
	KeyDeliveryMinFee    = "delivery_min_fee"
	KeyDeliveryRatePerKm = "delivery_rate_per_km"
	KeyPixKey            = "pix_key"
	KeyWhatsAppPhone     = "whatsapp_phone"
)

var knownKeys = map[string]struct{}{
	KeyPriceMedium:       {},
	KeyPriceLarge:        {},
	KeyPriceWater:        {},
	KeyDeliveryMinFee:    {},
	KeyDeliveryRatePerKm: {},
	KeyPixKey:            {},
	KeyWhatsAppPhone:     {},
}

// KnownKey reports whether key is one of the settings the application reads.
func KnownKey(key string) bool {
	_, ok := knownKeys[key]
	return ok
}

// Settings is the parsed configuration snapshot the ordering flow needs.
type Settings struct {
	PriceMedium       decimal.Decimal
	PriceLarge        decimal.Decimal
	PriceWater        decimal.Decimal
	DeliveryMinFee    decimal.Decimal
	DeliveryRatePerKm decimal.Decimal
	PixKey            string
	WhatsAppPhone     string
}

// DefaultSettings are the values used for any key missing from storage.
// They match the seed data.
func DefaultSettings() Settings {
	return Settings{
		PriceMedium:       decimal.RequireFromString("12.00"),
		PriceLarge:        decimal.RequireFromString("16.00"),
		PriceWater:        decimal.RequireFromString("5.00"),
		DeliveryMinFee:    decimal.NewFromInt(5),
		DeliveryRatePerKm: decimal.NewFromInt(1),
	}
}

// ParseSettings overlays raw key-value pairs onto the defaults. A malformed
// numeric value is an error rather than a silent fallback: prices are
// administrator input and a typo must surface, not vanish.
func ParseSettings(raw map[string]string) (Settings, error) {
	s := DefaultSettings()

	for key, dst := range map[string]*decimal.Decimal{
		KeyPriceMedium:       &s.PriceMedium,
		KeyPriceLarge:        &s.PriceLarge,
		KeyPriceWater:        &s.PriceWater,
		KeyDeliveryMinFee:    &s.DeliveryMinFee,
		KeyDeliveryRatePerKm: &s.DeliveryRatePerKm,
	} {
		v, ok := raw[key]
		if !ok || v == "" {
			continue
		}
		parsed, err := decimal.NewFromString(v)
		if err != nil {
			return Settings{}, errors.Wrapf(err, "setting %s", key)
		}
		*dst = parsed
	}

	if v, ok := raw[KeyPixKey]; ok {
		s.PixKey = v
	}
	if v, ok := raw[KeyWhatsAppPhone]; ok {
		s.WhatsAppPhone = v
	}

	return s, nil
}

// SettingsRepository defines persistence operations for settings.
type SettingsRepository interface {
	Load(ctx context.Context) (Settings, error)
	Set(ctx context.Context, key, value string) error
}
