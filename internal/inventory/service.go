package inventory

import (
	"context"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/stockroom-app/stockroom/internal/shared"
)

// AlertPort notifies the owner that an item has gone low on stock.
// Delivery is best effort; failures never affect the mutation.
type AlertPort interface {
	NotifyLowStock(ctx context.Context, item Item) error
}

// Service coordinates inventory operations. Every method takes the caller
// identity explicitly so the layer stays testable without a live session.
type Service struct {
	repo   Repository
	cache  *ListCache
	alerts AlertPort
}

// NewService builds Service. cache and alerts may be nil.
func NewService(repo Repository, cache *ListCache, alerts AlertPort) *Service {
	return &Service{repo: repo, cache: cache, alerts: alerts}
}

// List returns every item owned by the caller, newest first. The result
// is served from the list cache when fresh.
func (s *Service) List(ctx context.Context, ownerID int64) ([]Item, error) {
	if ownerID == 0 {
		return nil, shared.ErrUnauthorized
	}
	return s.cache.Fetch(ctx, ownerID, func(ctx context.Context) ([]Item, error) {
		return s.repo.List(ctx, ownerID)
	})
}

// Create validates and normalises the input, then persists a new item
// owned by the caller.
func (s *Service) Create(ctx context.Context, ownerID int64, input CreateItemRequest) (Item, error) {
	if ownerID == 0 {
		return Item{}, shared.ErrUnauthorized
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return Item{}, ErrNameRequired
	}

	item := Item{
		OwnerID:     ownerID,
		Name:        name,
		Description: normalizeOptional(input.Description),
		SKU:         normalizeOptional(input.SKU),
		Category:    normalizeOptional(input.Category),
	}

	if input.Quantity != nil && *input.Quantity > 0 {
		item.Quantity = *input.Quantity
	}

	threshold := DefaultLowStockThreshold
	if input.LowStockThreshold != nil {
		threshold = max(*input.LowStockThreshold, 0)
	}
	item.LowStockThreshold = &threshold

	if input.UnitPrice != nil {
		price := roundPrice(*input.UnitPrice)
		item.UnitPrice = &price
	}

	created, err := s.repo.Insert(ctx, item)
	if err != nil {
		return Item{}, err
	}
	s.cache.Invalidate(ctx, ownerID)
	return created, nil
}

// UpdateQuantity writes a new stock count for the caller's item. Negative
// values are clamped to zero before the write, so a decrement at zero is a
// no-op rather than an error.
func (s *Service) UpdateQuantity(ctx context.Context, ownerID int64, id uuid.UUID, quantity int) (Item, error) {
	if ownerID == 0 {
		return Item{}, shared.ErrUnauthorized
	}

	updated, err := s.repo.UpdateQuantity(ctx, ownerID, id, max(quantity, 0))
	if err != nil {
		return Item{}, err
	}
	s.cache.Invalidate(ctx, ownerID)

	if s.alerts != nil && updated.LowStock() {
		// Enqueuing is deduplicated downstream, so firing on every
		// low-stock write is fine.
		_ = s.alerts.NotifyLowStock(ctx, updated)
	}
	return updated, nil
}

// Delete removes the caller's item by id.
func (s *Service) Delete(ctx context.Context, ownerID int64, id uuid.UUID) error {
	if ownerID == 0 {
		return shared.ErrUnauthorized
	}
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, ownerID)
	return nil
}

func normalizeOptional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// roundPrice rounds to two fractional digits, half away from zero, to
// match the NUMERIC(10,2) column.
func roundPrice(value float64) float64 {
	return math.Round(value*100) / 100
}
