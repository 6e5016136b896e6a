package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeLowStockAlert is the task type for low-stock email alerts.
	TaskTypeLowStockAlert = "stock:low_alert"
)

// LowStockAlertPayload describes the information required to alert an owner.
type LowStockAlertPayload struct {
	OwnerID   int64  `json:"owner_id"`
	OwnerMail string `json:"owner_mail"`
	ItemID    string `json:"item_id"`
	ItemName  string `json:"item_name"`
	Quantity  int    `json:"quantity"`
	Threshold int    `json:"threshold"`
}

// NewLowStockAlertTask constructs an Asynq task. Tasks are unique per item
// for a day, so repeated writes while an item stays low produce one alert.
func NewLowStockAlertTask(payload LowStockAlertPayload) (*asynq.Task, []asynq.Option, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	opts := []asynq.Option{
		asynq.Queue(QueueDefault),
		asynq.Unique(24 * time.Hour),
	}
	return asynq.NewTask(TaskTypeLowStockAlert, data), opts, nil
}

// Sender delivers a notification message to a single recipient.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// NewLowStockAlertHandler processes TaskTypeLowStockAlert tasks.
func NewLowStockAlertHandler(mailer Sender) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload LowStockAlertPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		subject := fmt.Sprintf("Low stock: %s", payload.ItemName)
		body := fmt.Sprintf("%s is down to %d (threshold %d). Time to restock.",
			payload.ItemName, payload.Quantity, payload.Threshold)
		return mailer.Send(ctx, payload.OwnerMail, subject, body)
	}
}
