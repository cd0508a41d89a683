package billing

import (
	"github.com/courierhq/billing/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Account represents a billable account on the message-routing platform.
// CreditBalance is signed and may go negative; only the transaction ledger
// mutates it. LastTopupBalance is the credit balance recorded at the last
// top-up and is the denominator for low-credit threshold tracking. A zero
// LastTopupBalance means no top-up is on record.
type Account struct {
	shared.BaseEntity
	AccountNumber    string
	Description      string
	CreditBalance    decimal.Decimal
	LastTopupBalance decimal.Decimal
}

// HasTopupReference reports whether threshold percentages can be computed
// for this account. Accounts without a positive last-topup balance are
// never notified.
func (a *Account) HasTopupReference() bool {
	return a.LastTopupBalance.IsPositive()
}

// BalancePercentage returns the ceiling of the credit balance as a
// percentage of the last top-up balance. Callers must check
// HasTopupReference first.
func (a *Account) BalancePercentage() int {
	return CeilPercentage(a.CreditBalance, a.LastTopupBalance)
}

// CeilPercentage computes ceil(balance * 100 / reference) as an integer.
func CeilPercentage(balance, reference decimal.Decimal) int {
	return int(balance.Mul(decimal.NewFromInt(100)).Div(reference).Ceil().IntPart())
}
