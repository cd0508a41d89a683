package billing

import (
	"github.com/courierhq/billing/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TransactionType labels the kind of billed event
type TransactionType string

const (
	// TransactionTypeMessage is a billed message traversal
	TransactionTypeMessage TransactionType = "Message"
)

// TransactionStatus is the lifecycle status of a ledger entry. Entries are
// written complete; there is no pending state.
type TransactionStatus string

const (
	// StatusCompleted is the only status the engine writes
	StatusCompleted TransactionStatus = "Completed"
)

// Transaction is an immutable ledger record for one billed event. The
// signed CreditAmount is negative for debits and always equals the amount
// subtracted from the account's credit balance in the same unit of work.
// Transactions are never mutated after creation.
type Transaction struct {
	shared.BaseEntity
	AccountNumber    string
	MessageID        string
	TransactionType  TransactionType
	TagPoolName      string
	TagName          string
	Provider         *string
	MessageDirection MessageDirection
	SessionCreated   bool
	MessageCost      decimal.Decimal
	StorageCost      decimal.Decimal
	SessionCost      decimal.Decimal
	MarkupPercent    decimal.Decimal
	MessageCredits   decimal.Decimal
	StorageCredits   decimal.Decimal
	SessionCredits   decimal.Decimal
	CreditFactor     decimal.Decimal
	CreditAmount     decimal.Decimal
	Status           TransactionStatus
}

// NewTransaction assembles a completed ledger entry from the billed event,
// the resolved cost rule and the credit breakdown. The breakdown's credit
// amount is negated so the stored amount reads as a debit.
func NewTransaction(
	ev BillableEvent,
	messageID, tagName string,
	sessionCreated bool,
	txType TransactionType,
	rule *CostRule,
	credits CreditBreakdown,
	creditFactor decimal.Decimal,
) *Transaction {
	if txType == "" {
		txType = TransactionTypeMessage
	}
	return &Transaction{
		BaseEntity:       shared.NewBaseEntity(),
		AccountNumber:    ev.AccountNumber,
		MessageID:        messageID,
		TransactionType:  txType,
		TagPoolName:      ev.TagPoolName,
		TagName:          tagName,
		Provider:         ev.Provider,
		MessageDirection: ev.MessageDirection,
		SessionCreated:   sessionCreated,
		MessageCost:      rule.MessageCost,
		StorageCost:      rule.StorageCost,
		SessionCost:      rule.SessionCost,
		MarkupPercent:    rule.MarkupPercent,
		MessageCredits:   credits.MessageCredits,
		StorageCredits:   credits.StorageCredits,
		SessionCredits:   credits.SessionCredits,
		CreditFactor:     creditFactor,
		CreditAmount:     credits.CreditAmount.Neg(),
		Status:           StatusCompleted,
	}
}

// Debit returns the magnitude of the balance change caused by this
// transaction.
func (t *Transaction) Debit() decimal.Decimal {
	return t.CreditAmount.Neg()
}
