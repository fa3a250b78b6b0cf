// Package delivery converts a free-text customer address into a delivery
// fee using an external geocoding and routing collaborator. Every external
// failure degrades to the configured minimum fee with an advisory message;
// fee calculation must never prevent order completion.
package delivery

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Point is a WGS84 coordinate pair, longitude first (the Mapbox convention).
type Point struct {
	Lon float64
	Lat float64
}

// Sentinel errors a Geocoder implementation reports.
var (
	ErrNoMatch = errors.New("no geocoding match")
	ErrNoRoute = errors.New("no route found")
)

// Geocoder is the external geocoding/routing collaborator.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (Point, error)
	RouteDistanceKm(ctx context.Context, origin, dest Point) (float64, error)
}

// Quote is the outcome of one fee calculation. Advisory holds the reason a
// fallback fee was applied; it is information for the customer, never a
// blocker. Address records which address the quote was computed for, so a
// late completion can be matched against the current draft.
type Quote struct {
	Fee        decimal.Decimal     `json:"fee"`
	DistanceKm decimal.NullDecimal `json:"distance_km"`
	Advisory   string              `json:"advisory,omitempty"`
	Address    string              `json:"-"`
}

// Rates are the fee parameters, supplied from settings on each call so
// admin changes take effect without a restart.
type Rates struct {
	PerKm      decimal.Decimal
	MinimumFee decimal.Decimal
}

// Resolver computes delivery fees against a fixed restaurant address.
type Resolver struct {
	geo            Geocoder
	restaurantAddr string
	lg             *zap.Logger
}

// NewResolver creates a Resolver. restaurantAddr is the origin of every
// route lookup.
func NewResolver(geo Geocoder, restaurantAddr string, lg *zap.Logger) *Resolver {
	return &Resolver{geo: geo, restaurantAddr: restaurantAddr, lg: lg}
}

// ResolveFee geocodes the restaurant and customer addresses, requests a
// driving distance, and prices it: fee = max(ceil(km × rate), minimum).
// It always returns a usable Quote and never an error; a single failed
// attempt is final for this invocation (no retries). The restaurant's
// coordinates are intentionally not cached across calls.
func (r *Resolver) ResolveFee(ctx context.Context, customerAddress string, rates Rates) Quote {
	fallback := func(advisory string, err error) Quote {
		r.lg.Warn("delivery fee fallback",
			zap.String("advisory", advisory),
			zap.Error(err),
		)
		return Quote{Fee: rates.MinimumFee, Advisory: advisory, Address: customerAddress}
	}

	origin, err := r.geo.Geocode(ctx, r.restaurantAddr)
	if err != nil {
		return fallback("Não foi possível localizar o endereço do restaurante.", err)
	}

	dest, err := r.geo.Geocode(ctx, customerAddress)
	if err != nil {
		return fallback("Não foi possível localizar o endereço fornecido.", err)
	}

	km, err := r.geo.RouteDistanceKm(ctx, origin, dest)
	if err != nil {
		return fallback("Não foi possível calcular a distância.", err)
	}

	distance := decimal.NewFromFloat(km)
	fee := distance.Mul(rates.PerKm).Ceil()
	if fee.LessThan(rates.MinimumFee) {
		fee = rates.MinimumFee
	}

	return Quote{
		Fee:        fee,
		DistanceKm: decimal.NewNullDecimal(distance.Round(2)),
		Address:    customerAddress,
	}
}
