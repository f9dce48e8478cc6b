package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// Service encapsulates inventory business logic on top of a Repository.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates an inventory Service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Add validates and persists a new item. SKUs must be unique within the
// catalog and quantities must not be negative.
func (s *Service) Add(ctx context.Context, item Item) (*Item, error) {
	if item.Name == "" {
		return nil, fmt.Errorf("item name is required")
	}
	if item.SKU == "" {
		return nil, fmt.Errorf("item SKU is required")
	}
	if item.Quantity < 0 {
		return nil, ErrNegativeQuantity
	}

	existing, err := s.repo.GetBySKU(ctx, item.SKU)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("check SKU: %w", err)
	}
	if existing != nil {
		return nil, &DuplicateSKUError{SKU: item.SKU}
	}

	item.ID = uuid.New().String()
	item.CreatedAt = s.now()
	item.UpdatedAt = item.CreatedAt
	if err := s.repo.Create(ctx, &item); err != nil {
		return nil, fmt.Errorf("create inventory item: %w", err)
	}
	return &item, nil
}

// Update merges only the provided fields into the stored item. Negative
// quantities and SKU collisions are rejected before anything is written.
func (s *Service) Update(ctx context.Context, id string, upd Update) (*Item, error) {
	if upd.Quantity != nil && *upd.Quantity < 0 {
		return nil, ErrNegativeQuantity
	}
	if upd.SKU != nil {
		existing, err := s.repo.GetBySKU(ctx, *upd.SKU)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("check SKU: %w", err)
		}
		if existing != nil && existing.ID != id {
			return nil, &DuplicateSKUError{SKU: *upd.SKU}
		}
	}
	return s.repo.Update(ctx, id, upd)
}

// Remove deletes an item and its batches.
func (s *Service) Remove(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Get returns a single item.
func (s *Service) Get(ctx context.Context, id string) (*Item, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns the full catalog ordered by name.
func (s *Service) List(ctx context.Context) ([]Item, error) {
	return s.repo.List(ctx)
}

// LowStock returns every item at or below its reorder threshold. The result
// is computed fresh on each call since quantities change constantly.
func (s *Service) LowStock(ctx context.Context) ([]Item, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	low := make([]Item, 0)
	for _, item := range items {
		if item.LowStock() {
			low = append(low, item)
		}
	}
	return low, nil
}

// ByCategory returns all items in the given category.
func (s *Service) ByCategory(ctx context.Context, category string) ([]Item, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Item, 0)
	for _, item := range items {
		if item.Category == category {
			out = append(out, item)
		}
	}
	return out, nil
}

// Search returns items whose name, SKU, or category contains the query,
// case-insensitively.
func (s *Service) Search(ctx context.Context, query string) ([]Item, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	out := make([]Item, 0)
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), q) ||
			strings.Contains(strings.ToLower(item.SKU), q) ||
			strings.Contains(strings.ToLower(item.Category), q) {
			out = append(out, item)
		}
	}
	return out, nil
}

// Batches returns all received batches across the catalog.
func (s *Service) Batches(ctx context.Context) ([]Batch, error) {
	return s.repo.ListBatches(ctx)
}
