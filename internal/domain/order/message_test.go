package order

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmitafamilia/ordering/internal/domain/pricing"
	"github.com/marmitafamilia/ordering/internal/domain/selection"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func snapshotFor(t *testing.T, d selection.Draft, fee string) *Order {
	t.Helper()
	prices := pricing.Compute(d, mustDecimal(t, fee))
	return snapshot(d, prices, "order-1", time.Date(2025, 3, 14, 18, 30, 0, 0, time.UTC))
}

func TestFormatMessage_PixOrder(t *testing.T) {
	d := selection.NewDraft(mediumPrice, waterPrice)
	d, err := d.WithQuantity(2)
	require.NoError(t, err)
	d = d.ToggleProtein("Frango frito")
	d = d.ToggleSide("Arroz").ToggleSide("Feijão")
	d = d.WithAddress("Rua das Flores, 123 - Centro")

	got := FormatMessage(snapshotFor(t, d, "5"))

	want := strings.Join([]string{
		"*NOVO PEDIDO*",
		"",
		"*Marmita Média x2*",
		"*Proteínas:* Frango frito",
		"*Acompanhamentos:* Arroz, Feijão",
		"*Saladas:* Nenhuma",
		"*Água:* Não",
		"",
		"*Forma de pagamento:* PIX",
		"",
		"*Endereço:* Rua das Flores, 123 - Centro",
		"",
		"*Subtotal:* R$ 24.00",
		"*Taxa de entrega:* R$ 5.00",
		"*Total:* R$ 29.00",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestFormatMessage_CashWithChange(t *testing.T) {
	d := selection.NewDraft(mediumPrice, waterPrice)
	d, err := d.WithMealSize(selection.MealSizeLarge, largePrice)
	require.NoError(t, err)
	d = d.ToggleProtein("Bife ao molho").ToggleProtein("Calabresa acebolada")
	d = d.WithWater(true)
	d = d.WithAddress("Av. Brasil, 456 - Jardim")
	d, err = d.WithPaymentMethod(selection.PaymentCash, mustDecimal(t, "26.00"))
	require.NoError(t, err)
	d, err = d.WithCashTendered("50")
	require.NoError(t, err)

	got := FormatMessage(snapshotFor(t, d, "5"))

	assert.Contains(t, got, "*Forma de pagamento:* Dinheiro\n")
	assert.Contains(t, got, "*Troco para:* R$ 50.00 → Levar R$ 24.00\n")
	assert.Contains(t, got, "*Água:* Sim")
	assert.Contains(t, got, "*Saladas:* Nenhuma")
}

func TestFormatMessage_CashExactHasNoChangeLine(t *testing.T) {
	d := selection.NewDraft(mediumPrice, waterPrice)
	d = d.ToggleProtein("Frango frito")
	d = d.WithAddress("Rua das Flores, 123 - Centro")
	total := mustDecimal(t, "17.00")
	d, err := d.WithPaymentMethod(selection.PaymentCash, total)
	require.NoError(t, err)

	got := FormatMessage(snapshotFor(t, d, "5"))
	assert.NotContains(t, got, "*Troco para:*")
}

func TestFormatMessage_Deterministic(t *testing.T) {
	d := selection.NewDraft(mediumPrice, waterPrice)
	d = d.ToggleProtein("Frango frito")
	d = d.WithAddress("Rua das Flores, 123 - Centro")

	o := snapshotFor(t, d, "5")
	assert.Equal(t, FormatMessage(o), FormatMessage(o))
}

func TestRedirectURL(t *testing.T) {
	cfg := MessageConfig{BaseURL: "https://wa.me", Phone: "5511999998888"}

	got := RedirectURL(cfg, "*NOVO PEDIDO* açaí & co")

	assert.True(t, strings.HasPrefix(got, "https://wa.me/5511999998888?text="))
	// Spaces must be %20 for chat prefill, never '+'.
	assert.NotContains(t, got, "+")
	assert.Contains(t, got, "*NOVO%20PEDIDO*")
	assert.Contains(t, got, "%26") // '&' cannot leak into the query string
}

func TestEncodeComponent_MatchesEncodeURIComponent(t *testing.T) {
	// The characters encodeURIComponent leaves bare must survive, while
	// reserved ones are still escaped.
	assert.Equal(t, "*Troco*%20!('a')%20R%24%205%2C00",
		encodeComponent("*Troco* !('a') R$ 5,00"))
}

func TestRedirectURL_TrimsBaseSlash(t *testing.T) {
	cfg := MessageConfig{BaseURL: "https://wa.me/", Phone: "5511999998888"}
	got := RedirectURL(cfg, "oi")
	assert.Equal(t, "https://wa.me/5511999998888?text=oi", got)
}
