package order

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/marmitafamilia/ordering/internal/domain/selection"
)

// ViolationCode is a discrete, enumerable reason a draft cannot be
// submitted. The same rule table drives both the "can submit" decision and
// the per-field user message.
type ViolationCode string

const (
	ViolationQuantityInvalid   ViolationCode = "quantity_invalid"
	ViolationProteinCountWrong ViolationCode = "protein_count_wrong"
	ViolationAddressMissing    ViolationCode = "address_missing"
	ViolationCashInsufficient  ViolationCode = "cash_insufficient"
)

// Addresses shorter than this are unlikely to be deliverable.
const minAddressLength = 10

// UserMessage returns the message shown to the customer for this violation.
func (c ViolationCode) UserMessage() string {
	switch c {
	case ViolationQuantityInvalid:
		return "Informe uma quantidade válida de marmitas."
	case ViolationProteinCountWrong:
		return "Selecione as proteínas conforme o tamanho da marmita."
	case ViolationAddressMissing:
		return "Informe o endereço completo para entrega."
	case ViolationCashInsufficient:
		return "O valor em dinheiro não cobre o total do pedido."
	default:
		return "Pedido inválido."
	}
}

// ValidationError carries the first violation found on the submission path.
type ValidationError struct {
	Code ViolationCode
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("order validation failed: %s", e.Code)
}

// Validate checks every rule independently and reports all violations, in a
// fixed order. The draft is submittable iff the result is empty.
func Validate(d selection.Draft, total decimal.Decimal) []ViolationCode {
	var violations []ViolationCode

	if d.Quantity < 1 {
		violations = append(violations, ViolationQuantityInvalid)
	}

	if len(d.Proteins) != d.MealSize.ProteinCapacity() {
		violations = append(violations, ViolationProteinCountWrong)
	}

	if utf8.RuneCountInString(strings.TrimSpace(d.Address)) < minAddressLength {
		violations = append(violations, ViolationAddressMissing)
	}

	if d.PaymentMethod == selection.PaymentCash &&
		d.CashTendered.Valid &&
		d.CashTendered.Decimal.LessThan(total) {
		violations = append(violations, ViolationCashInsufficient)
	}

	return violations
}
