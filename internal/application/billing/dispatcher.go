package billing

import (
	"context"

	"github.com/shopspring/decimal"
)

// NotificationDispatcher hands a low-credit notification to an external
// asynchronous task runner. Dispatch must return as soon as the work is
// enqueued; it is never awaited by the billing caller and a failure is
// logged, not surfaced. A crash between ledger commit and dispatch loses
// the notification, which is accepted.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, accountNumber string, level decimal.Decimal, creditBalance decimal.Decimal) error
}
