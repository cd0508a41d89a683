package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	appbilling "github.com/courierhq/billing/internal/application/billing"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LowCreditTask is the payload pushed to the notification worker queue.
// Field names are part of the worker contract.
type LowCreditTask struct {
	AccountNumber    string `json:"account_number"`
	ThresholdPercent int    `json:"threshold_percent"`
	Threshold        string `json:"threshold"`
	CreditBalance    string `json:"credit_balance"`
	DispatchedAt     string `json:"dispatched_at"`
}

// RedisDispatcher hands low-credit notifications to an out-of-process
// worker by pushing task payloads onto a Redis list. Delivery is
// best-effort: the push either lands or the notification is lost.
type RedisDispatcher struct {
	client *redis.Client
	queue  string
	logger *zap.Logger
}

// NewRedisDispatcher creates a RedisDispatcher pushing to the given queue
func NewRedisDispatcher(client *redis.Client, queue string, logger *zap.Logger) *RedisDispatcher {
	return &RedisDispatcher{
		client: client,
		queue:  queue,
		logger: logger.Named("notification"),
	}
}

// Dispatch enqueues one low-credit task. It returns as soon as Redis
// acknowledges the push; the notification itself is produced by the
// worker consuming the queue.
func (d *RedisDispatcher) Dispatch(ctx context.Context, accountNumber string, level decimal.Decimal, creditBalance decimal.Decimal) error {
	task := LowCreditTask{
		AccountNumber:    accountNumber,
		ThresholdPercent: int(level.Mul(decimal.NewFromInt(100)).IntPart()),
		Threshold:        level.String(),
		CreditBalance:    creditBalance.String(),
		DispatchedAt:     time.Now().UTC().Format(time.RFC3339),
	}

	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to encode notification task: %w", err)
	}

	if err := d.client.LPush(ctx, d.queue, string(payload)).Err(); err != nil {
		return fmt.Errorf("failed to enqueue notification task: %w", err)
	}

	d.logger.Debug("low-credit notification enqueued",
		zap.String("account_number", accountNumber),
		zap.Int("threshold_percent", task.ThresholdPercent),
	)
	return nil
}

// Ensure RedisDispatcher implements NotificationDispatcher
var _ appbilling.NotificationDispatcher = (*RedisDispatcher)(nil)
