package models

import (
	"github.com/courierhq/billing/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// AccountModel is the persistence model for the Account entity.
type AccountModel struct {
	BaseModel
	AccountNumber    string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_billing_account_number"`
	Description      string          `gorm:"type:varchar(255)"`
	CreditBalance    decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0"`
	LastTopupBalance decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "billing_accounts"
}

// ToDomain converts the persistence model to a domain Account entity.
func (m *AccountModel) ToDomain() *billing.Account {
	return &billing.Account{
		BaseEntity:       m.BaseModel.ToDomain(),
		AccountNumber:    m.AccountNumber,
		Description:      m.Description,
		CreditBalance:    m.CreditBalance,
		LastTopupBalance: m.LastTopupBalance,
	}
}

// FromDomain populates the persistence model from a domain Account entity.
func (m *AccountModel) FromDomain(a *billing.Account) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.AccountNumber = a.AccountNumber
	m.Description = a.Description
	m.CreditBalance = a.CreditBalance
	m.LastTopupBalance = a.LastTopupBalance
}

// AccountModelFromDomain creates a new persistence model from a domain Account entity.
func AccountModelFromDomain(a *billing.Account) *AccountModel {
	m := &AccountModel{}
	m.FromDomain(a)
	return m
}

// CostRuleModel is the persistence model for the CostRule entity.
// NULL account_number, tag_pool_name or provider means the field is a
// wildcard.
type CostRuleModel struct {
	BaseModel
	AccountNumber    *string                  `gorm:"type:varchar(100);index:idx_cost_rule_account"`
	TagPoolName      *string                  `gorm:"type:varchar(100);index:idx_cost_rule_tag_pool"`
	Provider         *string                  `gorm:"type:varchar(100)"`
	MessageDirection billing.MessageDirection `gorm:"type:varchar(20);not null;index:idx_cost_rule_direction"`
	MessageCost      decimal.Decimal          `gorm:"type:decimal(20,6);not null;default:0"`
	StorageCost      decimal.Decimal          `gorm:"type:decimal(20,6);not null;default:0"`
	SessionCost      decimal.Decimal          `gorm:"type:decimal(20,6);not null;default:0"`
	MarkupPercent    decimal.Decimal          `gorm:"type:decimal(20,6);not null;default:0"`
}

// TableName returns the table name for GORM
func (CostRuleModel) TableName() string {
	return "billing_cost_rules"
}

// ToDomain converts the persistence model to a domain CostRule entity.
func (m *CostRuleModel) ToDomain() billing.CostRule {
	return billing.CostRule{
		BaseEntity:       m.BaseModel.ToDomain(),
		AccountNumber:    m.AccountNumber,
		TagPoolName:      m.TagPoolName,
		Provider:         m.Provider,
		MessageDirection: m.MessageDirection,
		MessageCost:      m.MessageCost,
		StorageCost:      m.StorageCost,
		SessionCost:      m.SessionCost,
		MarkupPercent:    m.MarkupPercent,
	}
}

// FromDomain populates the persistence model from a domain CostRule entity.
func (m *CostRuleModel) FromDomain(r *billing.CostRule) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.AccountNumber = r.AccountNumber
	m.TagPoolName = r.TagPoolName
	m.Provider = r.Provider
	m.MessageDirection = r.MessageDirection
	m.MessageCost = r.MessageCost
	m.StorageCost = r.StorageCost
	m.SessionCost = r.SessionCost
	m.MarkupPercent = r.MarkupPercent
}

// CostRuleModelFromDomain creates a new persistence model from a domain CostRule entity.
func CostRuleModelFromDomain(r *billing.CostRule) *CostRuleModel {
	m := &CostRuleModel{}
	m.FromDomain(r)
	return m
}

// TransactionModel is the persistence model for the Transaction ledger entry.
// CreditAmount is stored signed; debits are negative.
type TransactionModel struct {
	BaseModel
	AccountNumber    string                    `gorm:"type:varchar(100);not null;index:idx_billing_tx_account_time,priority:1"`
	MessageID        string                    `gorm:"type:varchar(64);not null;index:idx_billing_tx_message"`
	TransactionType  billing.TransactionType   `gorm:"type:varchar(20);not null"`
	TagPoolName      string                    `gorm:"type:varchar(100);not null"`
	TagName          string                    `gorm:"type:varchar(100)"`
	Provider         *string                   `gorm:"type:varchar(100)"`
	MessageDirection billing.MessageDirection  `gorm:"type:varchar(20);not null"`
	SessionCreated   bool                      `gorm:"not null;default:false"`
	MessageCost      decimal.Decimal           `gorm:"type:decimal(20,6);not null;default:0"`
	StorageCost      decimal.Decimal           `gorm:"type:decimal(20,6);not null;default:0"`
	SessionCost      decimal.Decimal           `gorm:"type:decimal(20,6);not null;default:0"`
	MarkupPercent    decimal.Decimal           `gorm:"type:decimal(20,6);not null;default:0"`
	MessageCredits   decimal.Decimal           `gorm:"type:decimal(20,6);not null;default:0"`
	StorageCredits   decimal.Decimal           `gorm:"type:decimal(20,6);not null;default:0"`
	SessionCredits   decimal.Decimal           `gorm:"type:decimal(20,6);not null;default:0"`
	CreditFactor     decimal.Decimal           `gorm:"type:decimal(20,6);not null;default:0"`
	CreditAmount     decimal.Decimal           `gorm:"type:decimal(20,6);not null;default:0"`
	Status           billing.TransactionStatus `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (TransactionModel) TableName() string {
	return "billing_transactions"
}

// ToDomain converts the persistence model to a domain Transaction entity.
func (m *TransactionModel) ToDomain() *billing.Transaction {
	return &billing.Transaction{
		BaseEntity:       m.BaseModel.ToDomain(),
		AccountNumber:    m.AccountNumber,
		MessageID:        m.MessageID,
		TransactionType:  m.TransactionType,
		TagPoolName:      m.TagPoolName,
		TagName:          m.TagName,
		Provider:         m.Provider,
		MessageDirection: m.MessageDirection,
		SessionCreated:   m.SessionCreated,
		MessageCost:      m.MessageCost,
		StorageCost:      m.StorageCost,
		SessionCost:      m.SessionCost,
		MarkupPercent:    m.MarkupPercent,
		MessageCredits:   m.MessageCredits,
		StorageCredits:   m.StorageCredits,
		SessionCredits:   m.SessionCredits,
		CreditFactor:     m.CreditFactor,
		CreditAmount:     m.CreditAmount,
		Status:           m.Status,
	}
}

// FromDomain populates the persistence model from a domain Transaction entity.
func (m *TransactionModel) FromDomain(t *billing.Transaction) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.AccountNumber = t.AccountNumber
	m.MessageID = t.MessageID
	m.TransactionType = t.TransactionType
	m.TagPoolName = t.TagPoolName
	m.TagName = t.TagName
	m.Provider = t.Provider
	m.MessageDirection = t.MessageDirection
	m.SessionCreated = t.SessionCreated
	m.MessageCost = t.MessageCost
	m.StorageCost = t.StorageCost
	m.SessionCost = t.SessionCost
	m.MarkupPercent = t.MarkupPercent
	m.MessageCredits = t.MessageCredits
	m.StorageCredits = t.StorageCredits
	m.SessionCredits = t.SessionCredits
	m.CreditFactor = t.CreditFactor
	m.CreditAmount = t.CreditAmount
	m.Status = t.Status
}

// TransactionModelFromDomain creates a new persistence model from a domain Transaction entity.
func TransactionModelFromDomain(t *billing.Transaction) *TransactionModel {
	m := &TransactionModel{}
	m.FromDomain(t)
	return m
}
