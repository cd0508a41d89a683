package billing

import "github.com/shopspring/decimal"

var oneHundred = decimal.NewFromInt(100)

// CreditBreakdown holds the credit components derived from a resolved cost
// rule. The component credits keep full precision; CreditAmount is the
// rounded total in credit units and is always non-negative here (the ledger
// negates it when recording the debit).
type CreditBreakdown struct {
	MessageCredits decimal.Decimal
	StorageCredits decimal.Decimal
	SessionCredits decimal.Decimal
	CreditAmount   decimal.Decimal
}

// CreditConverter converts monetary costs plus markup into credit amounts.
// creditFactor is the platform-wide currency-to-credit conversion constant;
// places is the credit system's minimum unit expressed as decimal places.
type CreditConverter struct {
	creditFactor decimal.Decimal
	places       int32
}

// NewCreditConverter creates a CreditConverter
func NewCreditConverter(creditFactor decimal.Decimal, places int32) *CreditConverter {
	return &CreditConverter{
		creditFactor: creditFactor,
		places:       places,
	}
}

// CreditFactor returns the configured conversion constant
func (c *CreditConverter) CreditFactor() decimal.Decimal {
	return c.creditFactor
}

// Convert computes the credit breakdown for a resolved cost rule. Session
// cost only applies when the event created a session. Rounding happens
// once, half-up, on the final credit amount; intermediate values keep full
// precision.
func (c *CreditConverter) Convert(rule *CostRule, sessionCreated bool) CreditBreakdown {
	markup := decimal.NewFromInt(1).Add(rule.MarkupPercent.Div(oneHundred))

	b := CreditBreakdown{
		MessageCredits: rule.MessageCost.Mul(markup),
		StorageCredits: rule.StorageCost.Mul(markup),
		SessionCredits: decimal.Zero,
	}
	if sessionCreated {
		b.SessionCredits = rule.SessionCost.Mul(markup)
	}

	total := b.MessageCredits.Add(b.StorageCredits).Add(b.SessionCredits)
	// decimal.Round is half away from zero, which is half-up for the
	// non-negative amounts produced here.
	b.CreditAmount = total.Mul(c.creditFactor).Round(c.places)
	return b
}
