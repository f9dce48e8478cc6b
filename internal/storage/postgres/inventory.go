package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zaiqapos/pos-api/internal/domain/inventory"
)

var _ inventory.Repository = (*InventoryRepository)(nil)

// InventoryRepository implements inventory.Repository backed by PostgreSQL.
type InventoryRepository struct {
	pool *pgxpool.Pool
}

// NewInventoryRepository returns an InventoryRepository that uses the given
// pool.
func NewInventoryRepository(pool *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{pool: pool}
}

const inventoryColumns = `id, name, category, sku, quantity, unit, reorder_level,
	cost_price, selling_price, supplier, barcode, description, created_at, updated_at`

func scanInventoryItem(row pgx.Row) (*inventory.Item, error) {
	var it inventory.Item
	err := row.Scan(&it.ID, &it.Name, &it.Category, &it.SKU, &it.Quantity, &it.Unit,
		&it.ReorderLevel, &it.CostPrice, &it.SellingPrice, &it.Supplier, &it.Barcode,
		&it.Description, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// List returns the full catalog ordered by name.
func (r *InventoryRepository) List(ctx context.Context) ([]inventory.Item, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+inventoryColumns+" FROM inventory_items ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing inventory: %w", err)
	}
	defer rows.Close()

	var items []inventory.Item
	for rows.Next() {
		it, err := scanInventoryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning inventory item: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

// GetByID returns a single item, or inventory.ErrNotFound.
func (r *InventoryRepository) GetByID(ctx context.Context, id string) (*inventory.Item, error) {
	it, err := scanInventoryItem(r.pool.QueryRow(ctx,
		"SELECT "+inventoryColumns+" FROM inventory_items WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, inventory.ErrNotFound
		}
		return nil, fmt.Errorf("getting inventory item %q: %w", id, err)
	}
	return it, nil
}

// GetBySKU returns the item holding the given SKU, or inventory.ErrNotFound.
func (r *InventoryRepository) GetBySKU(ctx context.Context, sku string) (*inventory.Item, error) {
	it, err := scanInventoryItem(r.pool.QueryRow(ctx,
		"SELECT "+inventoryColumns+" FROM inventory_items WHERE sku = $1", sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, inventory.ErrNotFound
		}
		return nil, fmt.Errorf("getting inventory item by SKU %q: %w", sku, err)
	}
	return it, nil
}

// Create persists a new item. Unique violations on the SKU column are mapped
// to DuplicateSKUError as a second line of defence behind the service check.
func (r *InventoryRepository) Create(ctx context.Context, item *inventory.Item) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO inventory_items (id, name, category, sku, quantity, unit, reorder_level,
			cost_price, selling_price, supplier, barcode, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)`,
		item.ID, item.Name, item.Category, item.SKU, item.Quantity, item.Unit,
		item.ReorderLevel, item.CostPrice, item.SellingPrice, item.Supplier,
		item.Barcode, item.Description, item.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return &inventory.DuplicateSKUError{SKU: item.SKU}
		}
		return fmt.Errorf("creating inventory item %q: %w", item.ID, err)
	}
	return nil
}

// Upsert inserts an item, or refreshes the existing row holding the same
// SKU. Used by the seed and import tools.
func (r *InventoryRepository) Upsert(ctx context.Context, item *inventory.Item) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO inventory_items (id, name, category, sku, quantity, unit, reorder_level,
			cost_price, selling_price, supplier, barcode, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)
		ON CONFLICT (sku) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			quantity = EXCLUDED.quantity,
			unit = EXCLUDED.unit,
			reorder_level = EXCLUDED.reorder_level,
			cost_price = EXCLUDED.cost_price,
			selling_price = EXCLUDED.selling_price,
			supplier = EXCLUDED.supplier,
			barcode = EXCLUDED.barcode,
			description = EXCLUDED.description,
			updated_at = EXCLUDED.updated_at`,
		item.ID, item.Name, item.Category, item.SKU, item.Quantity, item.Unit,
		item.ReorderLevel, item.CostPrice, item.SellingPrice, item.Supplier,
		item.Barcode, item.Description, item.CreatedAt)
	if err != nil {
		return fmt.Errorf("upserting inventory item %q: %w", item.SKU, err)
	}
	return nil
}

// Update merges only the provided fields and returns the updated row.
func (r *InventoryRepository) Update(ctx context.Context, id string, upd inventory.Update) (*inventory.Item, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}

	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Category != nil {
		add("category", *upd.Category)
	}
	if upd.SKU != nil {
		add("sku", *upd.SKU)
	}
	if upd.Quantity != nil {
		add("quantity", *upd.Quantity)
	}
	if upd.Unit != nil {
		add("unit", *upd.Unit)
	}
	if upd.ReorderLevel != nil {
		add("reorder_level", *upd.ReorderLevel)
	}
	if upd.CostPrice != nil {
		add("cost_price", *upd.CostPrice)
	}
	if upd.SellingPrice != nil {
		add("selling_price", *upd.SellingPrice)
	}
	if upd.Supplier != nil {
		add("supplier", *upd.Supplier)
	}
	if upd.Barcode != nil {
		add("barcode", *upd.Barcode)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}

	query := "UPDATE inventory_items SET " + strings.Join(sets, ", ") +
		" WHERE id = $1 RETURNING " + inventoryColumns
	it, err := scanInventoryItem(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, inventory.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && upd.SKU != nil {
			return nil, &inventory.DuplicateSKUError{SKU: *upd.SKU}
		}
		return nil, fmt.Errorf("updating inventory item %q: %w", id, err)
	}
	return it, nil
}

// Delete removes an item; its batches cascade.
func (r *InventoryRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM inventory_items WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting inventory item %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return inventory.ErrNotFound
	}
	return nil
}

// ListBatches returns all received batches, soonest expiry first.
func (r *InventoryRepository) ListBatches(ctx context.Context) ([]inventory.Batch, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, inventory_item_id, batch_number, quantity, expiry_date, received_date
		FROM inventory_batches ORDER BY expiry_date NULLS LAST`)
	if err != nil {
		return nil, fmt.Errorf("listing inventory batches: %w", err)
	}
	defer rows.Close()

	var batches []inventory.Batch
	for rows.Next() {
		var b inventory.Batch
		if err := rows.Scan(&b.ID, &b.InventoryItemID, &b.BatchNumber, &b.Quantity,
			&b.ExpiryDate, &b.ReceivedDate); err != nil {
			return nil, fmt.Errorf("scanning inventory batch: %w", err)
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}
