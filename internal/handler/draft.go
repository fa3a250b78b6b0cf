package handler

import (
	"net/http"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/marmitafamilia/ordering/internal/delivery"
	"github.com/marmitafamilia/ordering/internal/domain/catalog"
	"github.com/marmitafamilia/ordering/internal/domain/order"
	"github.com/marmitafamilia/ordering/internal/domain/pricing"
	"github.com/marmitafamilia/ordering/internal/domain/selection"
	"github.com/marmitafamilia/ordering/internal/session"
)

type draftView struct {
	MealSize      selection.MealSize      `json:"meal_size"`
	Quantity      int                     `json:"quantity"`
	UnitPrice     string                  `json:"unit_price"`
	Proteins      []string                `json:"proteins"`
	Sides         []string                `json:"sides"`
	Salads        []string                `json:"salads"`
	Water         bool                    `json:"water"`
	WaterPrice    string                  `json:"water_price"`
	PaymentMethod selection.PaymentMethod `json:"payment_method"`
	CashTendered  *string                 `json:"cash_tendered,omitempty"`
	Address       string                  `json:"address"`
}

type pricingView struct {
	Subtotal    string  `json:"subtotal"`
	DeliveryFee string  `json:"delivery_fee"`
	Total       string  `json:"total"`
	ChangeDue   *string `json:"change_due,omitempty"`
}

type quoteView struct {
	Fee        string  `json:"fee"`
	DistanceKm *string `json:"distance_km"`
	Advisory   string  `json:"advisory,omitempty"`
}

type draftResponse struct {
	ID         string                `json:"id"`
	Draft      draftView             `json:"draft"`
	Pricing    pricingView           `json:"pricing"`
	Violations []order.ViolationCode `json:"violations"`
	Quote      *quoteView            `json:"delivery_quote,omitempty"`
}

// createDraft opens a new session with the empty default draft, mirroring
// the current catalog prices.
func (h *Handler) createDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	settings, err := h.settings.Load(ctx)
	if err != nil {
		zctx.From(ctx).Error("load settings", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "não foi possível iniciar o pedido")
		return
	}

	draft := selection.NewDraft(settings.PriceMedium, settings.PriceWater)
	id := h.sessions.Create(draft)

	respondJSON(w, http.StatusCreated, buildDraftResponse(id, draft, nil, settings))
}

// getDraft returns the current draft with its pricing breakdown and the
// full violation report.
func (h *Handler) getDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	draft, quote, err := h.sessions.Get(id)
	if err != nil {
		respondError(w, http.StatusNotFound, "pedido não encontrado")
		return
	}

	settings, err := h.settings.Load(ctx)
	if err != nil {
		zctx.From(ctx).Error("load settings", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "não foi possível carregar o pedido")
		return
	}

	respondJSON(w, http.StatusOK, buildDraftResponse(id, draft, quote, settings))
}

// applyEvent reduces one selection event onto the draft. Rejected input
// (malformed amount, unknown size, negative quantity) leaves the state
// unchanged and reports 422.
func (h *Handler) applyEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	var ev selection.Event
	if err := decodeBody(r, &ev); err != nil {
		respondError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}

	settings, err := h.settings.Load(ctx)
	if err != nil {
		zctx.From(ctx).Error("load settings", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "não foi possível atualizar o pedido")
		return
	}

	// The payment-method event needs the total in effect right now so the
	// cash tender can default to it; fetch the quote before taking the
	// store lock inside Apply.
	_, quote, err := h.sessions.Get(id)
	if err != nil {
		respondError(w, http.StatusNotFound, "pedido não encontrado")
		return
	}

	draft, err := h.sessions.Apply(id, func(d selection.Draft) (selection.Draft, error) {
		env := selection.Env{
			MediumPrice: settings.PriceMedium,
			LargePrice:  settings.PriceLarge,
			Total:       pricing.Total(d, feeFor(d, quote, settings)),
		}
		next, err := selection.Apply(d, ev, env)
		if err != nil {
			return next, err
		}
		// Shrinking the meal keeps the earliest protein picks, as the
		// order form does.
		if ev.Type == selection.EventSetMealSize {
			next = selection.TruncateProteins(next)
		}
		return next, nil
	})
	switch {
	case errors.Is(err, session.ErrNotFound):
		respondError(w, http.StatusNotFound, "pedido não encontrado")
		return
	case errors.Is(err, selection.ErrMalformedAmount):
		respondError(w, http.StatusUnprocessableEntity, "valor em dinheiro inválido")
		return
	case errors.Is(err, selection.ErrInvalidQuantity):
		respondError(w, http.StatusUnprocessableEntity, "quantidade inválida")
		return
	case errors.Is(err, selection.ErrInvalidMealSize),
		errors.Is(err, selection.ErrInvalidPaymentMethod),
		errors.Is(err, selection.ErrUnknownEvent):
		respondError(w, http.StatusUnprocessableEntity, "evento inválido")
		return
	case err != nil:
		zctx.From(ctx).Error("apply event", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "não foi possível atualizar o pedido")
		return
	}

	_, quote, _ = h.sessions.Get(id)
	respondJSON(w, http.StatusOK, buildDraftResponse(id, draft, quote, settings))
}

// quoteDelivery resolves the delivery fee for the draft's current address.
// Resolver failures are advisory: the response is still 200 with the
// minimum fee and a reason.
func (h *Handler) quoteDelivery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	draft, _, err := h.sessions.Get(id)
	if err != nil {
		respondError(w, http.StatusNotFound, "pedido não encontrado")
		return
	}
	if strings.TrimSpace(draft.Address) == "" {
		respondFieldError(w, http.StatusUnprocessableEntity,
			order.ViolationAddressMissing.UserMessage(), string(order.ViolationAddressMissing))
		return
	}

	settings, err := h.settings.Load(ctx)
	if err != nil {
		zctx.From(ctx).Error("load settings", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "não foi possível calcular a taxa de entrega")
		return
	}

	quote := h.resolver.ResolveFee(ctx, draft.Address, delivery.Rates{
		PerKm:      settings.DeliveryRatePerKm,
		MinimumFee: settings.DeliveryMinFee,
	})

	// Install only if the address has not moved on while we were waiting
	// on the geocoder.
	if !h.sessions.PutQuote(id, quote) {
		respondError(w, http.StatusConflict, "o endereço foi alterado durante o cálculo")
		return
	}

	respondJSON(w, http.StatusOK, buildQuoteView(quote))
}

// feeFor picks the delivery fee in effect for the draft: the quote when one
// matches the current address, the configured floor otherwise.
func feeFor(d selection.Draft, quote *delivery.Quote, settings catalog.Settings) decimal.Decimal {
	if quote != nil && quote.Address == d.Address {
		return quote.Fee
	}
	return settings.DeliveryMinFee
}

func buildDraftResponse(id string, d selection.Draft, quote *delivery.Quote, settings catalog.Settings) draftResponse {
	fee := feeFor(d, quote, settings)
	prices := pricing.Compute(d, fee)

	violations := order.Validate(d, prices.Total)
	if violations == nil {
		violations = []order.ViolationCode{}
	}

	resp := draftResponse{
		ID:         id,
		Draft:      buildDraftView(d),
		Pricing:    buildPricingView(prices),
		Violations: violations,
	}
	if quote != nil && quote.Address == d.Address {
		qv := buildQuoteView(*quote)
		resp.Quote = &qv
	}
	return resp
}

func buildDraftView(d selection.Draft) draftView {
	v := draftView{
		MealSize:      d.MealSize,
		Quantity:      d.Quantity,
		UnitPrice:     d.UnitPrice.StringFixed(2),
		Proteins:      emptyIfNil(d.Proteins),
		Sides:         emptyIfNil(d.Sides),
		Salads:        emptyIfNil(d.Salads),
		Water:         d.Water,
		WaterPrice:    d.WaterPrice.StringFixed(2),
		PaymentMethod: d.PaymentMethod,
		Address:       d.Address,
	}
	if d.CashTendered.Valid {
		s := d.CashTendered.Decimal.StringFixed(2)
		v.CashTendered = &s
	}
	return v
}

func buildPricingView(p pricing.Breakdown) pricingView {
	v := pricingView{
		Subtotal:    p.Subtotal.StringFixed(2),
		DeliveryFee: p.DeliveryFee.StringFixed(2),
		Total:       p.Total.StringFixed(2),
	}
	if p.ChangeDue.Valid {
		s := p.ChangeDue.Decimal.StringFixed(2)
		v.ChangeDue = &s
	}
	return v
}

func buildQuoteView(q delivery.Quote) quoteView {
	v := quoteView{
		Fee:      q.Fee.StringFixed(2),
		Advisory: q.Advisory,
	}
	if q.DistanceKm.Valid {
		s := q.DistanceKm.Decimal.StringFixed(2)
		v.DistanceKm = &s
	}
	return v
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
