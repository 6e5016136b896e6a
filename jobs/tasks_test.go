package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	_ "github.com/stockroom-app/stockroom/testing"
)

type fakeSender struct {
	to       []string
	subjects []string
	bodies   []string
	err      error
}

func (f *fakeSender) Send(ctx context.Context, to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.to = append(f.to, to)
	f.subjects = append(f.subjects, subject)
	f.bodies = append(f.bodies, body)
	return nil
}

func TestNewLowStockAlertTask(t *testing.T) {
	payload := LowStockAlertPayload{
		OwnerID:   1,
		OwnerMail: "owner@test.local",
		ItemID:    "0c6e9f1e-3f2a-4d11-9f6a-1f8b1f0b2c3d",
		ItemName:  "Espresso Beans",
		Quantity:  2,
		Threshold: 5,
	}

	task, opts, err := NewLowStockAlertTask(payload)
	require.NoError(t, err)
	require.Equal(t, TaskTypeLowStockAlert, task.Type())
	require.NotEmpty(t, opts)

	var decoded LowStockAlertPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &decoded))
	require.Equal(t, payload, decoded)
}

func TestLowStockAlertHandlerSendsMail(t *testing.T) {
	sender := &fakeSender{}
	handler := NewLowStockAlertHandler(sender)

	payload, err := json.Marshal(LowStockAlertPayload{
		OwnerMail: "owner@test.local",
		ItemName:  "Espresso Beans",
		Quantity:  2,
		Threshold: 5,
	})
	require.NoError(t, err)

	err = handler(context.Background(), asynq.NewTask(TaskTypeLowStockAlert, payload))
	require.NoError(t, err)
	require.Equal(t, []string{"owner@test.local"}, sender.to)
	require.Contains(t, sender.subjects[0], "Espresso Beans")
	require.Contains(t, sender.bodies[0], "down to 2")
}

func TestLowStockAlertHandlerSkipsBadPayload(t *testing.T) {
	handler := NewLowStockAlertHandler(&fakeSender{})

	err := handler(context.Background(), asynq.NewTask(TaskTypeLowStockAlert, []byte("{broken")))
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestLowStockAlertHandlerPropagatesSendError(t *testing.T) {
	boom := errors.New("relay down")
	handler := NewLowStockAlertHandler(&fakeSender{err: boom})

	payload, err := json.Marshal(LowStockAlertPayload{OwnerMail: "owner@test.local"})
	require.NoError(t, err)

	err = handler(context.Background(), asynq.NewTask(TaskTypeLowStockAlert, payload))
	require.ErrorIs(t, err, boom)
}
