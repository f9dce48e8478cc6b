package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/zaiqapos/pos-api/internal/domain/inventory"
	"github.com/zaiqapos/pos-api/internal/storage/postgres"
)

// Supplier feeds can repeat SKUs millions of times; the bloom filter keeps
// the exact dedupe set small by filtering out definite first-sightings.
const (
	bloomCapacity = 10_000_000
	bloomFPR      = 0.001
	progressEvery = 100_000
)

// stockLine is one NDJSON record of a gzipped supplier feed.
type stockLine struct {
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	SKU          string          `json:"sku"`
	Quantity     int             `json:"quantity"`
	Unit         string          `json:"unit"`
	ReorderLevel int             `json:"reorderLevel"`
	CostPrice    decimal.Decimal `json:"costPrice"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
	Supplier     string          `json:"supplier"`
	Barcode      string          `json:"barcode"`
}

// dedup tracks SKUs already accepted. The bloom filter answers definite
// misses without locking the exact set.
type dedup struct {
	mu     sync.Mutex
	filter *bloom.BloomFilter
	seen   map[string]struct{}
}

func newDedup() *dedup {
	return &dedup{
		filter: bloom.NewWithEstimates(bloomCapacity, bloomFPR),
		seen:   make(map[string]struct{}),
	}
}

// claim reports whether sku is new, and marks it as seen.
func (d *dedup) claim(sku string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.filter.TestString(sku) {
		if _, ok := d.seen[sku]; ok {
			return false
		}
	}
	d.filter.AddString(sku)
	d.seen[sku] = struct{}{}
	return true
}

func main() {
	var (
		dataDir     string
		databaseURL string
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing *.ndjson.gz supplier feeds")
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
		slog.Error("inventory import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("inventory import completed successfully")
}

func run(ctx context.Context, dataDir, databaseURL string) error {
	files, err := filepath.Glob(filepath.Join(dataDir, "*.ndjson.gz"))
	if err != nil {
		return errors.Wrap(err, "list feed files")
	}
	if len(files) == 0 {
		return errors.Errorf("no *.ndjson.gz feeds found in %s", dataDir)
	}

	slog.Info("scanning supplier feeds", slog.Int("files", len(files)))

	items, err := collectItems(ctx, files)
	if err != nil {
		return errors.Wrap(err, "collect items")
	}

	slog.Info("distinct SKUs collected", slog.Int("count", len(items)))

	if len(items) == 0 {
		slog.Info("nothing to import")
		return nil
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := writeItems(ctx, postgres.NewInventoryRepository(pool), items); err != nil {
		return errors.Wrap(err, "write items to database")
	}

	return nil
}

// collectItems streams every feed concurrently, keeping the first record seen
// for each SKU across all files.
func collectItems(ctx context.Context, files []string) ([]inventory.Item, error) {
	var (
		mu    sync.Mutex
		items []inventory.Item
	)
	seen := newDedup()
	now := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	for _, f := range files {
		f := f
		g.Go(func() error {
			var count uint64
			err := streamGzFile(ctx, f, func(line []byte) error {
				var rec stockLine
				if err := json.Unmarshal(line, &rec); err != nil {
					return errors.Wrap(err, "parse record")
				}
				if rec.SKU == "" || rec.Name == "" || rec.Quantity < 0 {
					return nil
				}
				if !seen.claim(rec.SKU) {
					return nil
				}

				mu.Lock()
				items = append(items, inventory.Item{
					ID:           uuid.New().String(),
					Name:         rec.Name,
					Category:     rec.Category,
					SKU:          rec.SKU,
					Quantity:     rec.Quantity,
					Unit:         rec.Unit,
					ReorderLevel: rec.ReorderLevel,
					CostPrice:    rec.CostPrice,
					SellingPrice: rec.SellingPrice,
					Supplier:     rec.Supplier,
					Barcode:      rec.Barcode,
					CreatedAt:    now,
				})
				mu.Unlock()

				count++
				if count%progressEvery == 0 {
					slog.Info("scan progress", slog.String("file", f), slog.Uint64("records", count))
				}
				return nil
			})
			if err != nil {
				return errors.Wrapf(err, "scan %s", f)
			}

			slog.Info("feed scanned", slog.String("file", f), slog.Uint64("accepted", count))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

// streamGzFile opens a gzip-compressed file and calls fn for each line.
func streamGzFile(ctx context.Context, path string, fn func(line []byte) error) error {
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
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(scanner.Bytes()) == 0 {
			continue
		}
		if err := fn(scanner.Bytes()); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	return nil
}

// writeItems upserts the collected items into the catalog.
func writeItems(ctx context.Context, repo *postgres.InventoryRepository, items []inventory.Item) error {
	slog.Info("writing inventory items", slog.Int("count", len(items)))

	for i, item := range items {
		if err := repo.Upsert(ctx, &item); err != nil {
			return errors.Wrapf(err, "upsert item %s", item.SKU)
		}

		if (i+1)%100 == 0 || i+1 == len(items) {
			slog.Info("write progress", slog.Int("written", i+1), slog.Int("total", len(items)))
		}
	}

	return nil
}
