package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/marmitafamilia/ordering/internal/domain/catalog"
)

var _ catalog.Repository = (*CatalogRepository)(nil)

// CatalogRepository implements catalog.Repository backed by PostgreSQL.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository returns a CatalogRepository that uses the given pool.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// ListActive returns the active items of one kind, ordered by name.
func (r *CatalogRepository) ListActive(ctx context.Context, kind catalog.Kind) ([]catalog.Item, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, kind, name, active FROM catalog_items
		 WHERE kind = $1 AND active
		 ORDER BY name`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("listing active %s items: %w", kind, err)
	}
	return collectItems(rows)
}

// ListAll returns every catalog item, active or not.
func (r *CatalogRepository) ListAll(ctx context.Context) ([]catalog.Item, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, kind, name, active FROM catalog_items
		 ORDER BY kind, name`)
	if err != nil {
		return nil, fmt.Errorf("listing catalog items: %w", err)
	}
	return collectItems(rows)
}

// Create inserts a new item and returns its generated ID.
func (r *CatalogRepository) Create(ctx context.Context, item catalog.Item) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx,
		`INSERT INTO catalog_items (kind, name, active)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		string(item.Kind), item.Name, item.Active).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("creating catalog item %q: %w", item.Name, err)
	}
	return id, nil
}

// SetActive flips an item's availability flag.
func (r *CatalogRepository) SetActive(ctx context.Context, id string, active bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE catalog_items SET active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("updating catalog item %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

// Delete removes an item.
func (r *CatalogRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM catalog_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting catalog item %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func collectItems(rows pgx.Rows) ([]catalog.Item, error) {
	defer rows.Close()

	var items []catalog.Item
	for rows.Next() {
		var it catalog.Item
		var kind string
		if err := rows.Scan(&it.ID, &kind, &it.Name, &it.Active); err != nil {
			return nil, fmt.Errorf("scanning catalog item: %w", err)
		}
		it.Kind = catalog.Kind(kind)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading catalog items: %w", err)
	}
	return items, nil
}

var _ catalog.SettingsRepository = (*SettingsRepository)(nil)

// SettingsRepository implements catalog.SettingsRepository backed by the
// settings key-value table.
type SettingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository returns a SettingsRepository that uses the given pool.
func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

// Load reads every stored key and parses the snapshot, falling back to
// defaults for missing keys.
func (r *SettingsRepository) Load(ctx context.Context) (catalog.Settings, error) {
	rows, err := r.pool.Query(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return catalog.Settings{}, fmt.Errorf("loading settings: %w", err)
	}
	defer rows.Close()

	raw := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return catalog.Settings{}, fmt.Errorf("scanning setting: %w", err)
		}
		raw[k] = v
	}
	if err := rows.Err(); err != nil {
		return catalog.Settings{}, fmt.Errorf("reading settings: %w", err)
	}

	return catalog.ParseSettings(raw)
}

// Set upserts one key.
func (r *SettingsRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO settings (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("setting %q: %w", key, err)
	}
	return nil
}
