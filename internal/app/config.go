package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (MARMITA_ prefix), flags, or YAML config files.
type Config struct {
	Addr        string `default:"0.0.0.0:8080" usage:"API server listen address"`
	DatabaseURL string `usage:"PostgreSQL connection URL (MARMITA_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	AdminToken  string `usage:"Shared secret for the admin endpoints; empty disables them" flag:"admin-token"`
	Restaurant  RestaurantConfig
	Mapbox      MapboxConfig
	WhatsApp    WhatsAppConfig
	Session     SessionConfig
	RateLimit   RateLimitConfig
	CORS        CORSConfig
	Graceful    GracefulConfig
}

// RestaurantConfig locates the restaurant itself.
type RestaurantConfig struct {
	Address string `usage:"Restaurant street address used as the delivery route origin" flag:"restaurant-address"`
}

// MapboxConfig configures the geocoding and directions client.
type MapboxConfig struct {
	Token   string `usage:"Mapbox access token (MARMITA_MAPBOX_TOKEN)" flag:"mapbox-token"`
	BaseURL string `default:"https://api.mapbox.com" usage:"Mapbox API base URL" flag:"mapbox-base-url"`
	Country string `default:"br" usage:"Country filter for geocoding results" flag:"mapbox-country"`
}

// WhatsAppConfig configures the outbound chat deep link.
type WhatsAppConfig struct {
	BaseURL string `default:"https://wa.me" usage:"Chat deep-link base URL" flag:"whatsapp-base-url"`
}

// SessionConfig controls the in-memory draft session store.
type SessionConfig struct {
	TTL           time.Duration `default:"2h"  usage:"Idle lifetime of a draft session" flag:"session-ttl"`
	SweepInterval time.Duration `default:"10m" usage:"How often expired sessions are swept" flag:"session-sweep-interval"`
}

// RateLimitConfig controls the per-client sliding window rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config files,
// and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "MARMITA",
		Files:     []string{"config.yaml", "/etc/marmita/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.DatabaseURL == "" {
		return nil, errors.New("database URL is required: set MARMITA_DATABASE_URL or DATABASE_URL")
	}
	if cfg.Mapbox.Token == "" {
		return nil, errors.New("Mapbox token is required: set MARMITA_MAPBOX_TOKEN")
	}
	if cfg.Restaurant.Address == "" {
		return nil, errors.New("restaurant address is required: set MARMITA_RESTAURANT_ADDRESS")
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables (Railway,
// Render, etc.) that use standard names like DATABASE_URL and PORT to the
// application's MARMITA_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
