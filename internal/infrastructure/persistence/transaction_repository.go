package persistence

import (
	"context"

	"github.com/courierhq/billing/internal/domain/billing"
	"github.com/courierhq/billing/internal/domain/shared"
	"github.com/courierhq/billing/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTransactionRepository implements TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Create inserts a new ledger entry
func (r *GormTransactionRepository) Create(ctx context.Context, tx *billing.Transaction) error {
	model := models.TransactionModelFromDomain(tx)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByAccount lists ledger entries for an account, most recent first
func (r *GormTransactionRepository) FindByAccount(ctx context.Context, accountNumber string, filter shared.Filter) ([]billing.Transaction, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Where("account_number = ?", accountNumber).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Where("account_number = ?", accountNumber).
		Order("created_at DESC")

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var txModels []models.TransactionModel
	if err := query.Find(&txModels).Error; err != nil {
		return nil, 0, err
	}

	transactions := make([]billing.Transaction, len(txModels))
	for i, model := range txModels {
		transactions[i] = *model.ToDomain()
	}
	return transactions, total, nil
}

// Ensure GormTransactionRepository implements TransactionRepository
var _ billing.TransactionRepository = (*GormTransactionRepository)(nil)
