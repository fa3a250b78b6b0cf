package handler

import (
	"net/http"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/marmitafamilia/ordering/internal/domain/catalog"
)

type createItemRequest struct {
	Kind catalog.Kind `json:"kind"`
	Name string       `json:"name"`
}

type updateItemRequest struct {
	Active *bool `json:"active"`
}

type updateSettingRequest struct {
	Value string `json:"value"`
}

func (h *Handler) createCatalogItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createItemRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if !req.Kind.Valid() {
		respondFieldError(w, http.StatusUnprocessableEntity, "tipo de item desconhecido", "kind")
		return
	}
	if req.Name == "" {
		respondFieldError(w, http.StatusUnprocessableEntity, "informe o nome do item", "name")
		return
	}

	id, err := h.catalog.Create(ctx, catalog.Item{Kind: req.Kind, Name: req.Name, Active: true})
	if err != nil {
		zctx.From(ctx).Error("create catalog item", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "não foi possível criar o item")
		return
	}

	respondJSON(w, http.StatusCreated, catalog.Item{ID: id, Kind: req.Kind, Name: req.Name, Active: true})
}

func (h *Handler) updateCatalogItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	var req updateItemRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	if req.Active == nil {
		respondFieldError(w, http.StatusUnprocessableEntity, "informe o campo active", "active")
		return
	}

	switch err := h.catalog.SetActive(ctx, id, *req.Active); {
	case errors.Is(err, catalog.ErrNotFound):
		respondError(w, http.StatusNotFound, "item não encontrado")
	case err != nil:
		zctx.From(ctx).Error("update catalog item", zap.String("id", id), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "não foi possível atualizar o item")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) deleteCatalogItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	switch err := h.catalog.Delete(ctx, id); {
	case errors.Is(err, catalog.ErrNotFound):
		respondError(w, http.StatusNotFound, "item não encontrado")
	case err != nil:
		zctx.From(ctx).Error("delete catalog item", zap.String("id", id), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "não foi possível remover o item")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// numericSettingKeys are validated as decimals before being stored so a
// typo never poisons the pricing path at read time.
var numericSettingKeys = map[string]struct{}{
	catalog.KeyPriceMedium:       {},
	catalog.KeyPriceLarge:        {},
	catalog.KeyPriceWater:        {},
	catalog.KeyDeliveryMinFee:    {},
	catalog.KeyDeliveryRatePerKm: {},
}

func (h *Handler) updateSetting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := r.PathValue("key")

	if !catalog.KnownKey(key) {
		respondError(w, http.StatusNotFound, "configuração desconhecida")
		return
	}

	var req updateSettingRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	req.Value = strings.TrimSpace(req.Value)

	if _, numeric := numericSettingKeys[key]; numeric {
		if _, err := decimal.NewFromString(req.Value); err != nil {
			respondFieldError(w, http.StatusUnprocessableEntity, "valor numérico inválido", "value")
			return
		}
	}

	if err := h.settings.Set(ctx, key, req.Value); err != nil {
		zctx.From(ctx).Error("update setting", zap.String("key", key), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "não foi possível salvar a configuração")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
