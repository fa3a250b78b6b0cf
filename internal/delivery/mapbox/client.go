// Package mapbox implements the delivery.Geocoder interface against the
// Mapbox Geocoding and Directions v5 APIs.
package mapbox

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/marmitafamilia/ordering/internal/delivery"
)

// Config holds Mapbox API parameters.
type Config struct {
	// Token is the Mapbox access token.
	Token string
	// BaseURL overrides the API host, mainly for tests.
	// Defaults to https://api.mapbox.com.
	BaseURL string
	// Country restricts geocoding results to one country code ("br").
	Country string
}

// Client talks to the Mapbox HTTP APIs.
type Client struct {
	cfg  Config
	http *http.Client
}

var _ delivery.Geocoder = (*Client)(nil)

// NewClient creates a Client with sane defaults applied.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.mapbox.com"
	}
	if cfg.Country == "" {
		cfg.Country = "br"
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// Geocode resolves an address to coordinates, restricted to the configured
// country. Returns delivery.ErrNoMatch when Mapbox finds nothing.
func (c *Client) Geocode(ctx context.Context, address string) (delivery.Point, error) {
	q := url.Values{
		"access_token": {c.cfg.Token},
		"country":      {c.cfg.Country},
		"limit":        {"1"},
	}
	endpoint := c.cfg.BaseURL + "/geocoding/v5/mapbox.places/" +
		url.PathEscape(address) + ".json?" + q.Encode()

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return delivery.Point{}, errors.Wrap(err, "geocoding request")
	}

	pt, found, err := parseGeocode(body)
	if err != nil {
		return delivery.Point{}, errors.Wrap(err, "decode geocoding response")
	}
	if !found {
		return delivery.Point{}, delivery.ErrNoMatch
	}
	return pt, nil
}

// RouteDistanceKm requests a driving route between two points and returns
// its length in kilometers. Returns delivery.ErrNoRoute when Mapbox has no
// route between them.
func (c *Client) RouteDistanceKm(ctx context.Context, origin, dest delivery.Point) (float64, error) {
	coords := fmt.Sprintf("%s,%s;%s,%s",
		formatCoord(origin.Lon), formatCoord(origin.Lat),
		formatCoord(dest.Lon), formatCoord(dest.Lat),
	)
	q := url.Values{"access_token": {c.cfg.Token}}
	endpoint := c.cfg.BaseURL + "/directions/v5/mapbox/driving/" + coords + "?" + q.Encode()

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return 0, errors.Wrap(err, "directions request")
	}

	meters, found, err := parseDirections(body)
	if err != nil {
		return 0, errors.Wrap(err, "decode directions response")
	}
	if !found {
		return 0, delivery.ErrNoRoute
	}
	return meters / 1000, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected status %s", resp.Status)
	}

	return io.ReadAll(io.LimitReader(resp.Body, 1<<20))
}

// parseGeocode pulls the first feature's center out of a geocoding response.
func parseGeocode(data []byte) (pt delivery.Point, found bool, err error) {
	d := jx.DecodeBytes(data)
	err = d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		if string(key) != "features" {
			return d.Skip()
		}
		return d.Arr(func(d *jx.Decoder) error {
			if found {
				return d.Skip()
			}
			return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
				if string(key) != "center" {
					return d.Skip()
				}
				var coords []float64
				if err := d.Arr(func(d *jx.Decoder) error {
					v, err := d.Float64()
					if err != nil {
						return err
					}
					coords = append(coords, v)
					return nil
				}); err != nil {
					return err
				}
				if len(coords) >= 2 {
					pt = delivery.Point{Lon: coords[0], Lat: coords[1]}
					found = true
				}
				return nil
			})
		})
	})
	return pt, found, err
}

// parseDirections pulls the first route's distance (meters) out of a
// directions response.
func parseDirections(data []byte) (meters float64, found bool, err error) {
	d := jx.DecodeBytes(data)
	err = d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		if string(key) != "routes" {
			return d.Skip()
		}
		return d.Arr(func(d *jx.Decoder) error {
			if found {
				return d.Skip()
			}
			return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
				if string(key) != "distance" {
					return d.Skip()
				}
				v, err := d.Float64()
				if err != nil {
					return err
				}
				meters = v
				found = true
				return nil
			})
		})
	})
	return meters, found, err
}

// formatCoord renders a coordinate the way the Directions URL expects:
// plain decimal notation, no exponent.
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
