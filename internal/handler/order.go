package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/marmitafamilia/ordering/internal/domain/order"
	"github.com/marmitafamilia/ordering/internal/domain/selection"
)

type submitResponse struct {
	OrderID     string      `json:"order_id"`
	RedirectURL string      `json:"redirect_url"`
	Message     string      `json:"message"`
	Pricing     pricingView `json:"pricing"`
}

// submitOrder freezes the draft into an order, persists it, and hands back
// the chat redirect. The session is reset to a fresh draft on success so a
// returning customer starts clean.
func (h *Handler) submitOrder(w http.ResponseWriter, r *http.Request) {
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
		respondError(w, http.StatusInternalServerError, "não foi possível enviar o pedido")
		return
	}

	result, err := h.orders.Submit(ctx, order.SubmitRequest{
		Draft:       draft,
		DeliveryFee: feeFor(draft, quote, settings),
		Phone:       settings.WhatsAppPhone,
	})
	if err != nil {
		var verr *order.ValidationError
		if errors.As(err, &verr) {
			respondFieldError(w, http.StatusUnprocessableEntity,
				verr.Code.UserMessage(), string(verr.Code))
			return
		}
		zctx.From(ctx).Error("submit order", zap.Error(err))
		respondError(w, http.StatusBadGateway, "não foi possível registrar o pedido, tente novamente")
		return
	}

	if err := h.sessions.Reset(id, selection.NewDraft(settings.PriceMedium, settings.PriceWater)); err != nil {
		// The order is already persisted; a sweeper eviction between Get
		// and Reset only costs the customer a fresh session.
		zctx.From(ctx).Warn("reset session", zap.Error(err))
	}

	o := result.Order
	resp := submitResponse{
		OrderID:     o.ID,
		RedirectURL: result.RedirectURL,
		Message:     result.Message,
		Pricing: pricingView{
			Subtotal:    o.Subtotal.StringFixed(2),
			DeliveryFee: o.DeliveryFee.StringFixed(2),
			Total:       o.Total.StringFixed(2),
		},
	}
	if o.ChangeDue.Valid {
		s := o.ChangeDue.Decimal.StringFixed(2)
		resp.Pricing.ChangeDue = &s
	}

	respondJSON(w, http.StatusCreated, resp)
}
