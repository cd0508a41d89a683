package persistence

import (
	"context"
	"errors"

	"github.com/courierhq/billing/internal/domain/billing"
	"github.com/courierhq/billing/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAccountRepository implements AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// FindByNumber finds an account by its account number
func (r *GormAccountRepository) FindByNumber(ctx context.Context, accountNumber string) (*billing.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).
		Where("account_number = ?", accountNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, billing.ErrAccountNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// LockForDebit re-reads the account under FOR UPDATE. The lock is held
// until the surrounding transaction finishes, serializing concurrent
// debits against the same account.
func (r *GormAccountRepository) LockForDebit(ctx context.Context, accountNumber string) (*billing.Account, error) {
	query := r.db.WithContext(ctx)
	// SQLite has no FOR UPDATE; its single writer lock serializes
	// transactions anyway.
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var model models.AccountModel
	if err := query.
		Where("account_number = ?", accountNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, billing.ErrAccountNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Debit subtracts amount from the account's credit balance in place. The
// balance arithmetic happens in the database so concurrent debits compose
// instead of overwriting each other.
func (r *GormAccountRepository) Debit(ctx context.Context, accountNumber string, amount decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&models.AccountModel{}).
		Where("account_number = ?", accountNumber).
		Update("credit_balance", gorm.Expr("credit_balance - ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return billing.ErrAccountNotFound
	}
	return nil
}

// Create inserts a new account
func (r *GormAccountRepository) Create(ctx context.Context, account *billing.Account) error {
	model := models.AccountModelFromDomain(account)
	return r.db.WithContext(ctx).Create(model).Error
}

// Ensure GormAccountRepository implements AccountRepository
var _ billing.AccountRepository = (*GormAccountRepository)(nil)
