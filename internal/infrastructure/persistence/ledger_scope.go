package persistence

import (
	"context"

	appbilling "github.com/courierhq/billing/internal/application/billing"
	"github.com/courierhq/billing/internal/domain/billing"
	"gorm.io/gorm"
)

// GormLedgerScope implements LedgerScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormLedgerScope struct {
	db *gorm.DB
}

// NewGormLedgerScope creates a new GormLedgerScope
func NewGormLedgerScope(db *gorm.DB) *GormLedgerScope {
	return &GormLedgerScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormLedgerScope) Execute(ctx context.Context, fn func(repos appbilling.LedgerRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormLedgerRepositories{tx: tx}
		return fn(repos)
	})
}

// gormLedgerRepositories provides access to all repositories within a transaction.
type gormLedgerRepositories struct {
	tx *gorm.DB
}

// Accounts returns the account repository scoped to the current transaction.
func (r *gormLedgerRepositories) Accounts() billing.AccountRepository {
	return NewGormAccountRepository(r.tx)
}

// CostRules returns the cost rule repository scoped to the current transaction.
func (r *gormLedgerRepositories) CostRules() billing.CostRuleRepository {
	return NewGormCostRuleRepository(r.tx)
}

// Transactions returns the ledger entry repository scoped to the current transaction.
func (r *gormLedgerRepositories) Transactions() billing.TransactionRepository {
	return NewGormTransactionRepository(r.tx)
}

// Ensure GormLedgerScope implements LedgerScope
var _ appbilling.LedgerScope = (*GormLedgerScope)(nil)

// Ensure gormLedgerRepositories implements LedgerRepositories
var _ appbilling.LedgerRepositories = (*gormLedgerRepositories)(nil)
