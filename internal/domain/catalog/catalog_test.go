package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSettings_Defaults(t *testing.T) {
	s, err := ParseSettings(nil)
	require.NoError(t, err)

	assert.True(t, s.PriceMedium.Equal(decimal.RequireFromString("12.00")))
	assert.True(t, s.PriceLarge.Equal(decimal.RequireFromString("16.00")))
	assert.True(t, s.PriceWater.Equal(decimal.RequireFromString("5.00")))
	assert.True(t, s.DeliveryMinFee.Equal(decimal.NewFromInt(5)))
	assert.True(t, s.DeliveryRatePerKm.Equal(decimal.NewFromInt(1)))
	assert.Empty(t, s.PixKey)
	assert.Empty(t, s.WhatsAppPhone)
}

func TestParseSettings_Overlay(t *testing.T) {
	s, err := ParseSettings(map[string]string{
		KeyPriceMedium:   "14.50",
		KeyPixKey:        "pix@example.com",
		KeyWhatsAppPhone: "5511999998888",
	})
	require.NoError(t, err)

	assert.True(t, s.PriceMedium.Equal(decimal.RequireFromString("14.50")))
	// Untouched keys keep their defaults.
	assert.True(t, s.PriceLarge.Equal(decimal.RequireFromString("16.00")))
	assert.Equal(t, "pix@example.com", s.PixKey)
	assert.Equal(t, "5511999998888", s.WhatsAppPhone)
}

func TestParseSettings_EmptyValueKeepsDefault(t *testing.T) {
	s, err := ParseSettings(map[string]string{KeyPriceWater: ""})
	require.NoError(t, err)
	assert.True(t, s.PriceWater.Equal(decimal.RequireFromString("5.00")))
}

func TestParseSettings_MalformedNumberSurfaces(t *testing.T) {
	_, err := ParseSettings(map[string]string{KeyPriceMedium: "12,00"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), KeyPriceMedium)
}

func TestKindValid(t *testing.T) {
	assert.True(t, KindProtein.Valid())
	assert.True(t, KindSide.Valid())
	assert.True(t, KindSalad.Valid())
	assert.False(t, Kind("sobremesa").Valid())
}

func TestKnownKey(t *testing.T) {
	assert.True(t, KnownKey(KeyDeliveryRatePerKm))
	assert.False(t, KnownKey("theme_color"))
}
