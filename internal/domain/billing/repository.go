package billing

import (
	"context"

	"github.com/courierhq/billing/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AccountRepository reads and mutates billing accounts. LockForDebit and
// Debit are only meaningful inside a store transaction; the locked row is
// held until that transaction commits or rolls back.
type AccountRepository interface {
	// FindByNumber returns the account or ErrAccountNotFound.
	FindByNumber(ctx context.Context, accountNumber string) (*Account, error)
	// LockForDebit re-reads the account under a row-level lock, so the
	// returned balances reflect every committed debit plus the current
	// transaction's own writes. Returns ErrAccountNotFound when the
	// account vanished.
	LockForDebit(ctx context.Context, accountNumber string) (*Account, error)
	// Debit subtracts amount from the account's credit balance.
	Debit(ctx context.Context, accountNumber string, amount decimal.Decimal) error
}

// CostRuleRepository looks up provisioned cost rules
type CostRuleRepository interface {
	// FindMatching returns every rule whose wildcardable fields are
	// compatible with the event. Specificity ranking happens in the
	// domain, see SelectBestRule.
	FindMatching(ctx context.Context, ev BillableEvent) ([]CostRule, error)
}

// TransactionRepository persists and reads ledger entries
type TransactionRepository interface {
	Create(ctx context.Context, tx *Transaction) error
	FindByAccount(ctx context.Context, accountNumber string, filter shared.Filter) ([]Transaction, int64, error)
}
