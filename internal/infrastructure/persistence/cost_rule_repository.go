package persistence

import (
	"context"

	"github.com/courierhq/billing/internal/domain/billing"
	"github.com/courierhq/billing/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCostRuleRepository implements CostRuleRepository using GORM
type GormCostRuleRepository struct {
	db *gorm.DB
}

// NewGormCostRuleRepository creates a new GormCostRuleRepository
func NewGormCostRuleRepository(db *gorm.DB) *GormCostRuleRepository {
	return &GormCostRuleRepository{db: db}
}

// FindMatching returns every rule compatible with the event. A NULL column
// is a wildcard and matches any event value; an event without a provider
// only matches rules whose provider column is NULL.
func (r *GormCostRuleRepository) FindMatching(ctx context.Context, ev billing.BillableEvent) ([]billing.CostRule, error) {
	query := r.db.WithContext(ctx).
		Model(&models.CostRuleModel{}).
		Where("message_direction = ?", ev.MessageDirection).
		Where("account_number IS NULL OR account_number = ?", ev.AccountNumber).
		Where("tag_pool_name IS NULL OR tag_pool_name = ?", ev.TagPoolName)

	if ev.Provider != nil {
		query = query.Where("provider IS NULL OR provider = ?", *ev.Provider)
	} else {
		query = query.Where("provider IS NULL")
	}

	var ruleModels []models.CostRuleModel
	if err := query.Order("created_at ASC").Find(&ruleModels).Error; err != nil {
		return nil, err
	}

	rules := make([]billing.CostRule, len(ruleModels))
	for i, model := range ruleModels {
		rules[i] = model.ToDomain()
	}
	return rules, nil
}

// Create inserts a new cost rule
func (r *GormCostRuleRepository) Create(ctx context.Context, rule *billing.CostRule) error {
	model := models.CostRuleModelFromDomain(rule)
	return r.db.WithContext(ctx).Create(model).Error
}

// Ensure GormCostRuleRepository implements CostRuleRepository
var _ billing.CostRuleRepository = (*GormCostRuleRepository)(nil)
