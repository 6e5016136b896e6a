package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/stockroom-app/stockroom/internal/inventory"
	"github.com/stockroom-app/stockroom/internal/shared"
)

// Alerter enqueues low-stock alert tasks. It implements the inventory
// service's AlertPort.
type Alerter struct {
	client *asynq.Client
	logger *slog.Logger
}

// NewAlerter constructs an Alerter around an Asynq client.
func NewAlerter(client *asynq.Client, logger *slog.Logger) *Alerter {
	return &Alerter{client: client, logger: logger}
}

// NotifyLowStock enqueues a deduplicated alert for the item's owner. The
// owner's email comes from the request identity; a call without one is
// skipped rather than failed.
func (a *Alerter) NotifyLowStock(ctx context.Context, item inventory.Item) error {
	if a == nil || a.client == nil {
		return nil
	}
	caller := shared.IdentityFromContext(ctx)
	if caller.Email == "" {
		return nil
	}

	threshold := 0
	if item.LowStockThreshold != nil {
		threshold = *item.LowStockThreshold
	}
	task, opts, err := NewLowStockAlertTask(LowStockAlertPayload{
		OwnerID:   item.OwnerID,
		OwnerMail: caller.Email,
		ItemID:    item.ID.String(),
		ItemName:  item.Name,
		Quantity:  item.Quantity,
		Threshold: threshold,
	})
	if err != nil {
		return fmt.Errorf("jobs: build low stock task: %w", err)
	}

	if _, err := a.client.EnqueueContext(ctx, task, opts...); err != nil {
		if errors.Is(err, asynq.ErrDuplicateTask) {
			return nil
		}
		if a.logger != nil {
			a.logger.Warn("enqueue low stock alert", slog.Any("error", err))
		}
		return fmt.Errorf("jobs: enqueue low stock alert: %w", err)
	}
	return nil
}

var _ inventory.AlertPort = (*Alerter)(nil)
