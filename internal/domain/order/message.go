package order

import (
	"net/url"
	"strconv"
	"strings"
)

// MessageConfig locates the outbound WhatsApp channel.
type MessageConfig struct {
	// BaseURL is the chat deep-link base, e.g. https://wa.me.
	BaseURL string
	// Phone is the restaurant's number in international digits-only form.
	Phone string
}

// FormatMessage renders the fixed-structure order summary sent to the
// restaurant. The template is deterministic: identical orders produce
// byte-identical output. Amounts are rounded to two places here, at the
// display boundary.
func FormatMessage(o *Order) string {
	var b strings.Builder

	b.WriteString("*NOVO PEDIDO*\n\n")
	b.WriteString("*Marmita " + o.Details.MealSize.Label() + " x" + strconv.Itoa(o.Details.Quantity) + "*\n")
	b.WriteString("*Proteínas:* " + strings.Join(o.Details.Proteins, ", ") + "\n")
	b.WriteString("*Acompanhamentos:* " + joinOr(o.Details.Sides, "Nenhum") + "\n")
	b.WriteString("*Saladas:* " + joinOr(o.Details.Salads, "Nenhuma") + "\n")
	b.WriteString("*Água:* " + simNao(o.Details.Water) + "\n\n")
	b.WriteString("*Forma de pagamento:* " + o.PaymentMethod.Label() + "\n")

	if o.ChangeDue.Valid && o.CashTendered.Valid {
		b.WriteString("*Troco para:* R$ " + o.CashTendered.Decimal.StringFixed(2) +
			" → Levar R$ " + o.ChangeDue.Decimal.StringFixed(2) + "\n")
	}

	b.WriteString("\n*Endereço:* " + o.Address + "\n\n")
	b.WriteString("*Subtotal:* R$ " + o.Subtotal.StringFixed(2) + "\n")
	b.WriteString("*Taxa de entrega:* R$ " + o.DeliveryFee.StringFixed(2) + "\n")
	b.WriteString("*Total:* R$ " + o.Total.StringFixed(2))

	return b.String()
}

// RedirectURL builds the prefilled chat link:
// <base>/<phone>?text=<percent-encoded message>.
func RedirectURL(cfg MessageConfig, message string) string {
	return strings.TrimSuffix(cfg.BaseURL, "/") + "/" + cfg.Phone + "?text=" + encodeComponent(message)
}

// componentUnescaper reverses the places where url.QueryEscape diverges
// from JavaScript's encodeURIComponent: spaces become %20 rather than '+',
// and ! * ' ( ) stay bare.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%2A", "*",
	"%27", "'",
	"%28", "(",
	"%29", ")",
)

// encodeComponent percent-encodes like JavaScript's encodeURIComponent, so
// the redirect link is byte-identical to one built in the browser.
func encodeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}

func joinOr(items []string, empty string) string {
	if len(items) == 0 {
		return empty
	}
	return strings.Join(items, ", ")
}

func simNao(v bool) string {
	if v {
		return "Sim"
	}
	return "Não"
}

