package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zaiqapos/pos-api/internal/domain/menu"
)

var _ menu.Repository = (*MenuRepository)(nil)

// MenuRepository implements menu.Repository backed by PostgreSQL.
type MenuRepository struct {
	pool *pgxpool.Pool
}

// NewMenuRepository returns a MenuRepository that uses the given pool.
func NewMenuRepository(pool *pgxpool.Pool) *MenuRepository {
	return &MenuRepository{pool: pool}
}

const menuColumns = "id, name, price, category, available, image_url, description, created_at, updated_at"

func scanMenuItem(row pgx.Row) (*menu.Item, error) {
	var m menu.Item
	err := row.Scan(&m.ID, &m.Name, &m.Price, &m.Category, &m.Available,
		&m.ImageURL, &m.Description, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns the full menu ordered by category, then name.
func (r *MenuRepository) List(ctx context.Context) ([]menu.Item, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+menuColumns+" FROM menu_items ORDER BY category, name")
	if err != nil {
		return nil, fmt.Errorf("listing menu items: %w", err)
	}
	defer rows.Close()

	var items []menu.Item
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning menu item: %w", err)
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

// GetByID returns a single menu item, or menu.ErrNotFound.
func (r *MenuRepository) GetByID(ctx context.Context, id string) (*menu.Item, error) {
	m, err := scanMenuItem(r.pool.QueryRow(ctx,
		"SELECT "+menuColumns+" FROM menu_items WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, menu.ErrNotFound
		}
		return nil, fmt.Errorf("getting menu item %q: %w", id, err)
	}
	return m, nil
}

// Create persists a new menu item.
func (r *MenuRepository) Create(ctx context.Context, item *menu.Item) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO menu_items (id, name, price, category, available, image_url, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
		item.ID, item.Name, item.Price, item.Category, item.Available,
		item.ImageURL, item.Description, item.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating menu item %q: %w", item.ID, err)
	}
	return nil
}

// Upsert inserts a menu item or refreshes the existing row with the same ID.
// Used by the seed tool.
func (r *MenuRepository) Upsert(ctx context.Context, item *menu.Item) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO menu_items (id, name, price, category, available, image_url, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			price = EXCLUDED.price,
			category = EXCLUDED.category,
			available = EXCLUDED.available,
			image_url = EXCLUDED.image_url,
			description = EXCLUDED.description,
			updated_at = EXCLUDED.updated_at`,
		item.ID, item.Name, item.Price, item.Category, item.Available,
		item.ImageURL, item.Description, item.CreatedAt)
	if err != nil {
		return fmt.Errorf("upserting menu item %q: %w", item.ID, err)
	}
	return nil
}

// Update merges only the provided fields and returns the updated row.
func (r *MenuRepository) Update(ctx context.Context, id string, upd menu.Update) (*menu.Item, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}

	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Price != nil {
		add("price", *upd.Price)
	}
	if upd.Category != nil {
		add("category", *upd.Category)
	}
	if upd.Available != nil {
		add("available", *upd.Available)
	}
	if upd.ImageURL != nil {
		add("image_url", *upd.ImageURL)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}

	query := "UPDATE menu_items SET " + strings.Join(sets, ", ") +
		" WHERE id = $1 RETURNING " + menuColumns
	m, err := scanMenuItem(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, menu.ErrNotFound
		}
		return nil, fmt.Errorf("updating menu item %q: %w", id, err)
	}
	return m, nil
}

// Delete removes a menu item.
func (r *MenuRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM menu_items WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting menu item %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return menu.ErrNotFound
	}
	return nil
}
