package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/marmitafamilia/ordering/db"
	"github.com/marmitafamilia/ordering/internal/domain/catalog"
	"github.com/marmitafamilia/ordering/internal/storage/postgres"
)

type catalogItemJSON struct {
	Kind catalog.Kind `json:"kind"`
	Name string       `json:"name"`
}

func main() {
	var (
		databaseURL string
		phone       string
		pixKey      string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&phone, "whatsapp-phone", "", "restaurant WhatsApp phone in international format")
	flag.StringVar(&pixKey, "pix-key", "", "PIX key shown to customers paying by PIX")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, phone, pixKey); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, phone, pixKey string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedSettings(ctx, pool, phone, pixKey); err != nil {
		return errors.Wrap(err, "seed settings")
	}

	if err := seedCatalog(ctx, pool); err != nil {
		return errors.Wrap(err, "seed catalog")
	}

	return nil
}

// seedSettings inserts the default settings, skipping keys that already
// exist so re-running never clobbers administrator changes.
func seedSettings(ctx context.Context, pool *pgxpool.Pool, phone, pixKey string) error {
	defaults := catalog.DefaultSettings()

	values := map[string]string{
		catalog.KeyPriceMedium:       defaults.PriceMedium.StringFixed(2),
		catalog.KeyPriceLarge:        defaults.PriceLarge.StringFixed(2),
		catalog.KeyPriceWater:        defaults.PriceWater.StringFixed(2),
		catalog.KeyDeliveryMinFee:    defaults.DeliveryMinFee.String(),
		catalog.KeyDeliveryRatePerKm: defaults.DeliveryRatePerKm.String(),
	}
	if phone != "" {
		values[catalog.KeyWhatsAppPhone] = phone
	}
	if pixKey != "" {
		values[catalog.KeyPixKey] = pixKey
	}

	slog.Info("seeding settings", slog.Int("count", len(values)))

	for key, value := range values {
		if _, err := pool.Exec(ctx,
			`INSERT INTO settings (key, value) VALUES ($1, $2) ON CONFLICT (key) DO NOTHING`,
			key, value,
		); err != nil {
			return errors.Wrapf(err, "insert setting %s", key)
		}
	}

	return nil
}

func seedCatalog(ctx context.Context, pool *pgxpool.Pool) error {
	var items []catalogItemJSON
	if err := json.Unmarshal(db.SeedCatalog, &items); err != nil {
		return errors.Wrap(err, "parse catalog seed")
	}

	slog.Info("seeding catalog items", slog.Int("count", len(items)))

	for _, item := range items {
		if !item.Kind.Valid() {
			return errors.Errorf("unknown catalog kind %q for %q", item.Kind, item.Name)
		}

		if _, err := pool.Exec(ctx,
			`INSERT INTO catalog_items (kind, name, active) VALUES ($1, $2, TRUE)
			 ON CONFLICT (kind, name) DO NOTHING`,
			string(item.Kind), item.Name,
		); err != nil {
			return errors.Wrapf(err, "insert catalog item %s", item.Name)
		}

		slog.Info("seeded catalog item", slog.String("kind", string(item.Kind)), slog.String("name", item.Name))
	}

	return nil
}
