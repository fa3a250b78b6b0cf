package selection

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnv() Env {
	return Env{
		MediumPrice: mediumPrice,
		LargePrice:  largePrice,
		Total:       decimal.RequireFromString("29.00"),
	}
}

func intPtr(n int) *int    { return &n }
func boolPtr(b bool) *bool { return &b }

func TestApply_SetMealSize(t *testing.T) {
	d, err := Apply(newDraft(), Event{Type: EventSetMealSize, Size: MealSizeLarge}, testEnv())
	require.NoError(t, err)
	assert.Equal(t, MealSizeLarge, d.MealSize)
	assert.True(t, d.UnitPrice.Equal(largePrice))
}

func TestApply_SetQuantity(t *testing.T) {
	env := testEnv()

	d, err := Apply(newDraft(), Event{Type: EventSetQuantity, Quantity: intPtr(4)}, env)
	require.NoError(t, err)
	assert.Equal(t, 4, d.Quantity)

	// A missing quantity is the cleared input field.
	d, err = Apply(d, Event{Type: EventSetQuantity}, env)
	require.NoError(t, err)
	assert.Equal(t, 0, d.Quantity)

	_, err = Apply(d, Event{Type: EventSetQuantity, Quantity: intPtr(-2)}, env)
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestApply_Toggles(t *testing.T) {
	env := testEnv()
	d := newDraft()

	d, err := Apply(d, Event{Type: EventToggleProtein, Name: "Frango frito"}, env)
	require.NoError(t, err)
	d, err = Apply(d, Event{Type: EventToggleSide, Name: "Arroz"}, env)
	require.NoError(t, err)
	d, err = Apply(d, Event{Type: EventToggleSalad, Name: "Alface"}, env)
	require.NoError(t, err)
	d, err = Apply(d, Event{Type: EventSetWater, Enabled: boolPtr(true)}, env)
	require.NoError(t, err)

	assert.Equal(t, []string{"Frango frito"}, d.Proteins)
	assert.Equal(t, []string{"Arroz"}, d.Sides)
	assert.Equal(t, []string{"Alface"}, d.Salads)
	assert.True(t, d.Water)
}

func TestApply_SetPaymentMethod_UsesEnvTotal(t *testing.T) {
	env := testEnv()

	d, err := Apply(newDraft(), Event{Type: EventSetPaymentMethod, Method: PaymentCash}, env)
	require.NoError(t, err)
	require.True(t, d.CashTendered.Valid)
	assert.True(t, d.CashTendered.Decimal.Equal(env.Total))
}

func TestApply_SetCashTendered_MalformedLeavesStateUnchanged(t *testing.T) {
	env := testEnv()
	d, err := Apply(newDraft(), Event{Type: EventSetPaymentMethod, Method: PaymentCash}, env)
	require.NoError(t, err)

	got, err := Apply(d, Event{Type: EventSetCashTendered, Amount: "12,50"}, env)
	require.ErrorIs(t, err, ErrMalformedAmount)
	assert.Equal(t, d, got)
}

func TestApply_SetAddress(t *testing.T) {
	d, err := Apply(newDraft(), Event{Type: EventSetAddress, Address: "Rua das Flores, 123"}, testEnv())
	require.NoError(t, err)
	assert.Equal(t, "Rua das Flores, 123", d.Address)
}

func TestApply_UnknownEvent(t *testing.T) {
	_, err := Apply(newDraft(), Event{Type: "set_dessert"}, testEnv())
	require.ErrorIs(t, err, ErrUnknownEvent)
}
