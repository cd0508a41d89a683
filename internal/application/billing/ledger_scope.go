package billing

import (
	"context"

	"github.com/courierhq/billing/internal/domain/billing"
)

// LedgerRepositories provides access to the repositories participating in
// one atomic ledger unit of work. All calls made through it share a single
// store transaction.
type LedgerRepositories interface {
	Accounts() billing.AccountRepository
	CostRules() billing.CostRuleRepository
	Transactions() billing.TransactionRepository
}

// LedgerScope executes a function within one store transaction. If the
// function returns an error the transaction rolls back and none of its
// writes survive; otherwise it commits. The account row touched inside the
// scope stays locked until the scope finishes.
type LedgerScope interface {
	Execute(ctx context.Context, fn func(repos LedgerRepositories) error) error
}
