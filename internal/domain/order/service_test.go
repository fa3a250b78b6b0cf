package order

import (
	"context"
	"strings"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmitafamilia/ordering/internal/domain/selection"
)

type mockOrderRepo struct {
	lastOrder *Order
	err       error
}

func (m *mockOrderRepo) Create(_ context.Context, o *Order) error {
	m.lastOrder = o
	return m.err
}

func submitReq(t *testing.T) SubmitRequest {
	t.Helper()
	d := selection.NewDraft(mediumPrice, waterPrice)
	d, err := d.WithQuantity(2)
	require.NoError(t, err)
	d = d.ToggleProtein("Frango frito")
	d = d.WithAddress("Rua das Flores, 123 - Centro")
	return SubmitRequest{
		Draft:       d,
		DeliveryFee: decimal.NewFromInt(5),
		Phone:       "5511999998888",
	}
}

func TestSubmit_Success(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := NewService(repo, "https://wa.me")

	res, err := svc.Submit(context.Background(), submitReq(t))
	require.NoError(t, err)

	require.NotNil(t, repo.lastOrder)
	o := repo.lastOrder
	assert.Equal(t, DefaultCustomerLabel, o.CustomerLabel)
	assert.Equal(t, "Rua das Flores, 123 - Centro", o.Address)
	assert.True(t, o.Subtotal.Equal(decimal.RequireFromString("24.00")))
	assert.True(t, o.Total.Equal(decimal.RequireFromString("29.00")))
	assert.NotEmpty(t, o.ID)

	assert.Equal(t, o, res.Order)
	assert.Contains(t, res.Message, "*NOVO PEDIDO*")
	assert.True(t, strings.HasPrefix(res.RedirectURL, "https://wa.me/5511999998888?text="))
	assert.Contains(t, res.RedirectURL, "*NOVO%20PEDIDO*")
}

func TestSubmit_ValidationStopsBeforePersistence(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := NewService(repo, "https://wa.me")

	req := submitReq(t)
	req.Draft = req.Draft.WithAddress("")

	_, err := svc.Submit(context.Background(), req)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, ViolationAddressMissing, verr.Code)
	assert.Nil(t, repo.lastOrder, "nothing may be persisted for an invalid draft")
}

func TestSubmit_FirstViolationWins(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := NewService(repo, "https://wa.me")

	req := submitReq(t)
	var err error
	req.Draft, err = req.Draft.WithQuantity(0)
	require.NoError(t, err)
	req.Draft = req.Draft.WithAddress("")

	_, err = svc.Submit(context.Background(), req)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, ViolationQuantityInvalid, verr.Code)
}

func TestSubmit_PersistenceFailureProducesNoRedirect(t *testing.T) {
	repo := &mockOrderRepo{err: errors.New("connection refused")}
	svc := NewService(repo, "https://wa.me")

	res, err := svc.Submit(context.Background(), submitReq(t))

	require.Error(t, err)
	assert.Nil(t, res)
	var verr *ValidationError
	assert.False(t, errors.As(err, &verr))
}

func TestSubmit_CashSnapshotCarriesChange(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := NewService(repo, "https://wa.me")

	req := submitReq(t)
	total := decimal.RequireFromString("29.00")
	var err error
	req.Draft, err = req.Draft.WithPaymentMethod(selection.PaymentCash, total)
	require.NoError(t, err)
	req.Draft, err = req.Draft.WithCashTendered("50")
	require.NoError(t, err)

	res, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)

	o := res.Order
	require.True(t, o.ChangeDue.Valid)
	assert.True(t, o.ChangeDue.Decimal.Equal(decimal.RequireFromString("21.00")))
	require.NotNil(t, o.Details.Change)
	assert.True(t, o.Details.Change.Tendered.Equal(decimal.NewFromInt(50)))
	assert.True(t, o.Details.Change.Due.Equal(decimal.RequireFromString("21.00")))
	assert.Contains(t, res.Message, "*Troco para:* R$ 50.00 → Levar R$ 21.00")
}
