package billing

import (
	"sort"

	"github.com/courierhq/billing/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MessageDirection represents the direction of a billed message
type MessageDirection string

const (
	// DirectionInbound is a message received from a channel
	DirectionInbound MessageDirection = "Inbound"
	// DirectionOutbound is a message sent to a channel
	DirectionOutbound MessageDirection = "Outbound"
)

// String returns the string representation of MessageDirection
func (d MessageDirection) String() string {
	return string(d)
}

// IsValid returns true if the direction is a known value
func (d MessageDirection) IsValid() bool {
	return d == DirectionInbound || d == DirectionOutbound
}

// BillableEvent identifies the routing coordinates of a billed message.
// Provider is optional; an event without a provider only matches rules
// with a provider wildcard.
type BillableEvent struct {
	AccountNumber    string
	TagPoolName      string
	Provider         *string
	MessageDirection MessageDirection
}

// CostRule is a provisioned pricing record. AccountNumber, TagPoolName and
// Provider are wildcards when nil; MessageDirection always matches exactly.
// Rules are read-only to the billing engine.
type CostRule struct {
	shared.BaseEntity
	AccountNumber    *string
	TagPoolName      *string
	Provider         *string
	MessageDirection MessageDirection
	MessageCost      decimal.Decimal
	StorageCost      decimal.Decimal
	SessionCost      decimal.Decimal
	MarkupPercent    decimal.Decimal
}

// Matches reports whether the rule applies to the event. Each wildcardable
// field matches when it is nil or equal to the event's value.
func (r *CostRule) Matches(ev BillableEvent) bool {
	if r.MessageDirection != ev.MessageDirection {
		return false
	}
	if r.AccountNumber != nil && *r.AccountNumber != ev.AccountNumber {
		return false
	}
	if r.TagPoolName != nil && *r.TagPoolName != ev.TagPoolName {
		return false
	}
	if r.Provider != nil && (ev.Provider == nil || *r.Provider != *ev.Provider) {
		return false
	}
	return true
}

// Specificity ranks a rule for fallback ordering. An exact account match
// outranks any combination of less significant exact matches, then tag
// pool, then provider.
func (r *CostRule) Specificity() int {
	score := 0
	if r.AccountNumber != nil {
		score |= 1 << 2
	}
	if r.TagPoolName != nil {
		score |= 1 << 1
	}
	if r.Provider != nil {
		score |= 1 << 0
	}
	return score
}

// SelectBestRule returns the matching rule with the highest specificity,
// or ErrNoCostRule when no rule matches. Selection is deterministic: equal
// specificity is broken by creation time, oldest rule first.
func SelectBestRule(rules []CostRule, ev BillableEvent) (*CostRule, error) {
	matched := make([]CostRule, 0, len(rules))
	for _, r := range rules {
		if r.Matches(ev) {
			matched = append(matched, r)
		}
	}
	if len(matched) == 0 {
		return nil, ErrNoCostRule
	}

	sort.SliceStable(matched, func(i, j int) bool {
		si, sj := matched[i].Specificity(), matched[j].Specificity()
		if si != sj {
			return si > sj
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	best := matched[0]
	return &best, nil
}
