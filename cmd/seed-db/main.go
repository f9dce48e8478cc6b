package main

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/zaiqapos/pos-api/internal/domain/auth"
	"github.com/zaiqapos/pos-api/internal/domain/inventory"
	"github.com/zaiqapos/pos-api/internal/domain/menu"
	"github.com/zaiqapos/pos-api/internal/storage/postgres"
)

type menuItemJSON struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Available   bool            `json:"available"`
	ImageURL    string          `json:"imageUrl"`
	Description string          `json:"description"`
}

type inventoryItemJSON struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	SKU          string          `json:"sku"`
	Quantity     int             `json:"quantity"`
	Unit         string          `json:"unit"`
	ReorderLevel int             `json:"reorderLevel"`
	CostPrice    decimal.Decimal `json:"costPrice"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
	Supplier     string          `json:"supplier"`
}

func main() {
	var (
		databaseURL   string
		menuFile      string
		inventoryFile string
		apiKey        string
		apiKeyRole    string
		apiKeyPepper  string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&menuFile, "menu-file", "db/seed/menu.json", "path to menu JSON file")
	flag.StringVar(&inventoryFile, "inventory-file", "db/seed/inventory.json", "path to inventory JSON file")
	flag.StringVar(&apiKey, "api-key", "", "API key to seed (or ZAIQA_SEED_API_KEY env)")
	flag.StringVar(&apiKeyRole, "api-key-role", "owner", "role of the seeded API key (staff, manager, owner)")
	flag.StringVar(&apiKeyPepper, "api-key-pepper", "", "HMAC pepper for API key hashing (or ZAIQA_API_KEY_PEPPER env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if apiKey == "" {
		apiKey = os.Getenv("ZAIQA_SEED_API_KEY")
	}
	if apiKey == "" {
		slog.Error("API key is required: set --api-key or ZAIQA_SEED_API_KEY")
		os.Exit(1)
	}
	if !auth.Role(apiKeyRole).Valid() {
		slog.Error("unknown API key role", slog.String("role", apiKeyRole))
		os.Exit(1)
	}
	if apiKeyPepper == "" {
		apiKeyPepper = os.Getenv("ZAIQA_API_KEY_PEPPER")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, menuFile, inventoryFile, apiKey, apiKeyRole, apiKeyPepper); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, menuFile, inventoryFile, apiKey, role, pepper string) error {
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

	if err := seedMenu(ctx, postgres.NewMenuRepository(pool), menuFile); err != nil {
		return errors.Wrap(err, "seed menu")
	}

	if err := seedInventory(ctx, postgres.NewInventoryRepository(pool), inventoryFile); err != nil {
		return errors.Wrap(err, "seed inventory")
	}

	if err := seedAPIKey(ctx, postgres.NewAPIKeyRepository(pool), apiKey, role, pepper); err != nil {
		return errors.Wrap(err, "seed api key")
	}

	return nil
}

func seedMenu(ctx context.Context, repo *postgres.MenuRepository, menuFile string) error {
	slog.Info("reading menu file", slog.String("path", menuFile))

	data, err := os.ReadFile(menuFile)
	if err != nil {
		return errors.Wrap(err, "read menu file")
	}

	var items []menuItemJSON
	if err := json.Unmarshal(data, &items); err != nil {
		return errors.Wrap(err, "parse menu JSON")
	}

	slog.Info("upserting menu items", slog.Int("count", len(items)))

	now := time.Now()
	for _, it := range items {
		if err := repo.Upsert(ctx, &menu.Item{
			ID:          it.ID,
			Name:        it.Name,
			Price:       it.Price,
			Category:    it.Category,
			Available:   it.Available,
			ImageURL:    it.ImageURL,
			Description: it.Description,
			CreatedAt:   now,
		}); err != nil {
			return errors.Wrapf(err, "upsert menu item %s", it.ID)
		}

		slog.Info("upserted menu item", slog.String("id", it.ID), slog.String("name", it.Name))
	}

	return nil
}

func seedInventory(ctx context.Context, repo *postgres.InventoryRepository, inventoryFile string) error {
	slog.Info("reading inventory file", slog.String("path", inventoryFile))

	data, err := os.ReadFile(inventoryFile)
	if err != nil {
		return errors.Wrap(err, "read inventory file")
	}

	var items []inventoryItemJSON
	if err := json.Unmarshal(data, &items); err != nil {
		return errors.Wrap(err, "parse inventory JSON")
	}

	slog.Info("upserting inventory items", slog.Int("count", len(items)))

	now := time.Now()
	for _, it := range items {
		if err := repo.Upsert(ctx, &inventory.Item{
			ID:           it.ID,
			Name:         it.Name,
			Category:     it.Category,
			SKU:          it.SKU,
			Quantity:     it.Quantity,
			Unit:         it.Unit,
			ReorderLevel: it.ReorderLevel,
			CostPrice:    it.CostPrice,
			SellingPrice: it.SellingPrice,
			Supplier:     it.Supplier,
			CreatedAt:    now,
		}); err != nil {
			return errors.Wrapf(err, "upsert inventory item %s", it.SKU)
		}

		slog.Info("upserted inventory item", slog.String("sku", it.SKU), slog.String("name", it.Name))
	}

	return nil
}

func seedAPIKey(ctx context.Context, repo *postgres.APIKeyRepository, apiKey, role, pepper string) error {
	slog.Info("seeding default API key", slog.String("role", role))

	mac := hmac.New(sha256.New, []byte(pepper))
	mac.Write([]byte(apiKey))
	keyHash := hex.EncodeToString(mac.Sum(nil))

	if err := repo.Insert(ctx, &auth.APIKeyInfo{
		ID:      "default",
		KeyHash: keyHash,
		Name:    "Default seeded key",
		Role:    auth.Role(role),
	}); err != nil {
		return errors.Wrap(err, "insert default API key")
	}

	slog.Info("seeded API key", slog.String("id", "default"))

	return nil
}
