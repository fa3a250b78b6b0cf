package handler

import (
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/marmitafamilia/ordering/internal/domain/catalog"
)

type catalogResponse struct {
	Proteins []catalog.Item `json:"proteins"`
	Sides    []catalog.Item `json:"sides"`
	Salads   []catalog.Item `json:"salads"`
	Prices   pricesView     `json:"prices"`
	PixKey   string         `json:"pix_key"`
}

type pricesView struct {
	Medium string `json:"medium"`
	Large  string `json:"large"`
	Water  string `json:"water"`
}

// getCatalog returns the active menu grouped by kind plus the public
// settings the order form needs.
func (h *Handler) getCatalog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	settings, err := h.settings.Load(ctx)
	if err != nil {
		zctx.From(ctx).Error("load settings", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "não foi possível carregar o cardápio")
		return
	}

	resp := catalogResponse{
		Prices: pricesView{
			Medium: settings.PriceMedium.StringFixed(2),
			Large:  settings.PriceLarge.StringFixed(2),
			Water:  settings.PriceWater.StringFixed(2),
		},
		PixKey: settings.PixKey,
	}

	for _, group := range []struct {
		kind catalog.Kind
		dst  *[]catalog.Item
	}{
		{catalog.KindProtein, &resp.Proteins},
		{catalog.KindSide, &resp.Sides},
		{catalog.KindSalad, &resp.Salads},
	} {
		items, err := h.catalog.ListActive(ctx, group.kind)
		if err != nil {
			zctx.From(ctx).Error("list catalog", zap.String("kind", string(group.kind)), zap.Error(err))
			respondError(w, http.StatusInternalServerError, "não foi possível carregar o cardápio")
			return
		}
		*group.dst = items
	}

	respondJSON(w, http.StatusOK, resp)
}
