// Command catalog-ingest bulk-imports catalog items from gzipped name lists,
// one file per kind (proteinas.gz, acompanhamentos.gz, saladas.gz). Existing
// names are skipped using a bloom filter primed from the database, so the
// import can be re-run over large exports without hammering the writer.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	pgzip "github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"

	"github.com/marmitafamilia/ordering/internal/domain/catalog"
	"github.com/marmitafamilia/ordering/internal/storage/postgres"
)

const (
	bloomCapacity = 1_000_000
	bloomFPR      = 0.001
	progressEvery = 10_000
	minNameLen    = 2
	maxNameLen    = 80
)

var kindFiles = map[catalog.Kind]string{
	catalog.KindProtein: "proteinas.gz",
	catalog.KindSide:    "acompanhamentos.gz",
	catalog.KindSalad:   "saladas.gz",
}

// fileResult holds the deduplicated names found in one file.
type fileResult struct {
	kind  catalog.Kind
	names []string
}

func main() {
	var (
		dataDir     string
		databaseURL string
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing per-kind .gz name lists")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
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

	if err := run(ctx, dataDir, databaseURL); err != nil {
		slog.Error("catalog ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog ingest completed successfully")
}

func run(ctx context.Context, dataDir, databaseURL string) error {
	files := make(map[catalog.Kind]string, len(kindFiles))
	for kind, name := range kindFiles {
		path := filepath.Join(dataDir, name)
		if _, err := os.Stat(path); err != nil {
			slog.Info("skipping kind, file missing", slog.String("kind", string(kind)), slog.String("path", path))
			continue
		}
		files[kind] = path
	}
	if len(files) == 0 {
		return errors.Errorf("no input files found in %s", dataDir)
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	// Prime a bloom filter with what the catalog already holds so known
	// names never reach the writer. False positives only cost a skipped
	// insert of an item that is almost certainly present.
	filter, err := primeFilter(ctx, pool)
	if err != nil {
		return errors.Wrap(err, "prime bloom filter")
	}

	results := make([]fileResult, 0, len(files))
	resultCh := make(chan fileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	for kind, path := range files {
		g.Go(scanFile(gctx, kind, path, filter, resultCh))
	}
	if err := g.Wait(); err != nil {
		return err
	}
	close(resultCh)
	for r := range resultCh {
		results = append(results, r)
	}

	return writeItems(ctx, pool, results)
}

func primeFilter(ctx context.Context, pool *pgxpool.Pool) (*bloom.BloomFilter, error) {
	filter := bloom.NewWithEstimates(bloomCapacity, bloomFPR)

	rows, err := pool.Query(ctx, `SELECT kind, name FROM catalog_items`)
	if err != nil {
		return nil, errors.Wrap(err, "list existing items")
	}
	defer rows.Close()

	var count int
	for rows.Next() {
		var kind, name string
		if err := rows.Scan(&kind, &name); err != nil {
			return nil, errors.Wrap(err, "scan existing item")
		}
		filter.AddString(filterKey(catalog.Kind(kind), name))
		count++
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate existing items")
	}

	slog.Info("primed filter from database", slog.Int("existing_items", count))
	return filter, nil
}

// filterKey namespaces a name by kind: the same name may legitimately exist
// under two kinds.
func filterKey(kind catalog.Kind, name string) string {
	return fmt.Sprintf("%s\x00%s", kind, strings.ToLower(name))
}

func scanFile(
	ctx context.Context,
	kind catalog.Kind,
	path string,
	filter *bloom.BloomFilter,
	out chan<- fileResult,
) func() error {
	return func() error {
		seen := make(map[string]struct{})
		var names []string
		var count uint64

		if err := streamGzFile(ctx, path, func(line string) {
			name := strings.TrimSpace(line)
			if len(name) < minNameLen || len(name) > maxNameLen {
				return
			}

			count++
			if count%progressEvery == 0 {
				slog.Info("scan progress", slog.String("kind", string(kind)), slog.Uint64("lines", count))
			}

			key := filterKey(kind, name)
			if _, dup := seen[key]; dup {
				return
			}
			seen[key] = struct{}{}

			if filter.TestString(key) {
				return
			}
			names = append(names, name)
		}); err != nil {
			return errors.Wrapf(err, "scan %s", path)
		}

		slog.Info("scan complete",
			slog.String("kind", string(kind)),
			slog.Uint64("lines", count),
			slog.Int("new_names", len(names)),
		)

		out <- fileResult{kind: kind, names: names}
		return nil
	}
}

// streamGzFile opens a gzip-compressed file and calls fn for each line.
func streamGzFile(ctx context.Context, path string, fn func(line string)) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	return nil
}

// writeItems inserts the new names. The UNIQUE(kind, name) constraint is the
// final arbiter; the bloom filter only trims the workload.
func writeItems(ctx context.Context, pool *pgxpool.Pool, results []fileResult) error {
	var total int
	for _, r := range results {
		total += len(r.names)
	}
	if total == 0 {
		slog.Info("no new items to insert")
		return nil
	}

	slog.Info("writing catalog items", slog.Int("count", total))

	var written int
	for _, r := range results {
		for _, name := range r.names {
			if _, err := pool.Exec(ctx,
				`INSERT INTO catalog_items (kind, name, active) VALUES ($1, $2, TRUE)
				 ON CONFLICT (kind, name) DO NOTHING`,
				string(r.kind), name,
			); err != nil {
				return errors.Wrapf(err, "insert item %s", name)
			}

			if written++; written%100 == 0 || written == total {
				slog.Info("write progress", slog.Int("written", written), slog.Int("total", total))
			}
		}
	}

	return nil
}
