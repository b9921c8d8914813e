// Package notify delivers best-effort "order placed" notifications.
// Failures are reported to the caller for logging only; they must never
// fail or roll back order creation.
package notify

import (
	"context"

	"github.com/currencydesk/currency-orders/internal/models"
)

// Notifier sends an order-placed message to the configured recipient.
type Notifier interface {
	OrderPlaced(ctx context.Context, order *models.Order, currency *models.Currency) error
}

// NopNotifier is used when no recipient or mail transport is configured.
type NopNotifier struct{}

func (NopNotifier) OrderPlaced(ctx context.Context, order *models.Order, currency *models.Currency) error {
	return nil
}
