package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCreditConverter(t *testing.T) {
	rule := &CostRule{
		MessageCost:   dec("0.05"),
		StorageCost:   dec("0.02"),
		SessionCost:   dec("0.10"),
		MarkupPercent: dec("10"),
	}

	t.Run("applies markup to each component", func(t *testing.T) {
		conv := NewCreditConverter(dec("10"), 3)
		b := conv.Convert(rule, false)

		assert.True(t, b.MessageCredits.Equal(dec("0.055")), "message credits: %s", b.MessageCredits)
		assert.True(t, b.StorageCredits.Equal(dec("0.022")), "storage credits: %s", b.StorageCredits)
		assert.True(t, b.SessionCredits.IsZero())
	})

	t.Run("session credits only when a session was created", func(t *testing.T) {
		conv := NewCreditConverter(dec("10"), 3)

		without := conv.Convert(rule, false)
		assert.True(t, without.SessionCredits.IsZero())

		with := conv.Convert(rule, true)
		assert.True(t, with.SessionCredits.Equal(dec("0.11")), "session credits: %s", with.SessionCredits)
		assert.True(t, with.CreditAmount.GreaterThan(without.CreditAmount))
	})

	t.Run("credit amount applies the conversion factor", func(t *testing.T) {
		conv := NewCreditConverter(dec("10"), 3)
		b := conv.Convert(rule, true)
		// (0.055 + 0.022 + 0.11) * 10 = 1.87
		assert.True(t, b.CreditAmount.Equal(dec("1.87")), "credit amount: %s", b.CreditAmount)
	})

	t.Run("rounds half-up once at the final amount", func(t *testing.T) {
		r := &CostRule{
			MessageCost:   dec("0.0001"),
			StorageCost:   dec("0.00015"),
			SessionCost:   decimal.Zero,
			MarkupPercent: decimal.Zero,
		}
		conv := NewCreditConverter(dec("10"), 3)
		b := conv.Convert(r, false)

		// Components keep full precision.
		assert.True(t, b.MessageCredits.Equal(dec("0.0001")))
		assert.True(t, b.StorageCredits.Equal(dec("0.00015")))
		// (0.0001 + 0.00015) * 10 = 0.0025 -> 0.003 half-up at 3 places.
		assert.True(t, b.CreditAmount.Equal(dec("0.003")), "credit amount: %s", b.CreditAmount)
	})

	t.Run("zero-cost rule yields zero credits", func(t *testing.T) {
		r := &CostRule{
			MessageCost:   decimal.Zero,
			StorageCost:   decimal.Zero,
			SessionCost:   decimal.Zero,
			MarkupPercent: dec("50"),
		}
		conv := NewCreditConverter(dec("10"), 3)
		b := conv.Convert(r, true)
		assert.True(t, b.CreditAmount.IsZero())
	})
}
