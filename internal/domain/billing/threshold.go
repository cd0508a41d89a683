package billing

import (
	"sort"

	"github.com/shopspring/decimal"
)

// ThresholdMap maps a balance percentage to the low-credit notification
// level it falls under. It is a step function over the configured threshold
// percentages: a percentage maps to the smallest configured threshold at or
// above it, clamped at the low end to the smallest threshold. Percentages
// above the highest threshold have no level. Immutable after construction.
type ThresholdMap struct {
	levels []int
}

// NewThresholdMap builds a ThresholdMap from the configured notification
// percentages. Input is deduplicated and sorted; values outside 0-100 are
// ignored. An empty input yields a map with no levels.
func NewThresholdMap(percentages []int) *ThresholdMap {
	seen := make(map[int]struct{}, len(percentages))
	levels := make([]int, 0, len(percentages))
	for _, p := range percentages {
		if p < 0 || p > 100 {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		levels = append(levels, p)
	}
	sort.Ints(levels)
	return &ThresholdMap{levels: levels}
}

// Level returns the notification level for the given percentage. The second
// return value is false when the percentage is above the highest configured
// threshold, or when no thresholds are configured.
func (m *ThresholdMap) Level(percentage int) (int, bool) {
	if len(m.levels) == 0 {
		return 0, false
	}
	if percentage < m.levels[0] {
		return m.levels[0], true
	}
	if percentage > m.levels[len(m.levels)-1] {
		return 0, false
	}
	i := sort.SearchInts(m.levels, percentage)
	return m.levels[i], true
}

// Levels returns the configured thresholds in ascending order
func (m *ThresholdMap) Levels() []int {
	out := make([]int, len(m.levels))
	copy(out, m.levels)
	return out
}

// Crossing describes a transaction that moved an account into a different
// notification level. Level is the entered threshold as a fraction
// (percentage / 100).
type Crossing struct {
	Level      decimal.Decimal
	Percentage int
}

// CrossingDetector compares an account's balance percentage before and
// after a transaction against a ThresholdMap.
type CrossingDetector struct {
	thresholds *ThresholdMap
}

// NewCrossingDetector creates a CrossingDetector
func NewCrossingDetector(thresholds *ThresholdMap) *CrossingDetector {
	return &CrossingDetector{thresholds: thresholds}
}

// Detect reports whether the debit crossed into a different notification
// level. balanceAfter is the post-debit balance, creditAmount the signed
// (negative) amount recorded on the transaction, lastTopupBalance the
// threshold denominator. Accounts without a top-up reference never cross.
// A move whose destination is above the highest threshold is suppressed:
// only landing on a tracked level reports a crossing.
func (d *CrossingDetector) Detect(balanceAfter, creditAmount, lastTopupBalance decimal.Decimal) (*Crossing, bool) {
	if !lastTopupBalance.IsPositive() {
		return nil, false
	}

	balanceBefore := balanceAfter.Sub(creditAmount)

	pctAfter := CeilPercentage(balanceAfter, lastTopupBalance)
	pctBefore := CeilPercentage(balanceBefore, lastTopupBalance)

	levelAfter, afterTracked := d.thresholds.Level(pctAfter)
	levelBefore, beforeTracked := d.thresholds.Level(pctBefore)

	if afterTracked == beforeTracked && levelAfter == levelBefore {
		return nil, false
	}
	if !afterTracked {
		// The balance left the tracked range upward; no notification.
		return nil, false
	}

	return &Crossing{
		Level:      decimal.NewFromInt(int64(levelAfter)).Div(oneHundred),
		Percentage: levelAfter,
	}, true
}
