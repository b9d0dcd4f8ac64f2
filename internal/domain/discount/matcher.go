package discount

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/tickart/internal/domain/cart"
)

// matchGroups counts how many discrete instances of the rule's condition
// the given pools satisfy. The result is never negative.
//
// Count-based conditions yield floor(pool size / min count) groups per
// pool, summed across pools. Under the distinct subevent mode each group
// draws one unit per sub-event, so the count is based on the number of
// distinct sub-events represented in the pool instead of its raw size.
//
// Value-based conditions satisfy at most one group per pool once the
// summed line prices reach the threshold. Cumulative value beyond the
// threshold does not repeat the group.
func matchGroups(lines []cart.Line, pools []pool, cond Condition, mode SubeventMode) int {
	groups := 0
	for _, p := range pools {
		if cond.MinCount > 0 {
			groups += countGroups(lines, p, cond.MinCount, mode)
		} else if cond.MinValue.IsPositive() {
			groups += valueGroups(lines, p, cond.MinValue)
		}
	}
	return groups
}

func countGroups(lines []cart.Line, p pool, minCount int, mode SubeventMode) int {
	units := len(p.lines)
	if mode == SubeventModeDistinct {
		units = distinctSubevents(lines, p)
	}
	return units / minCount
}

func valueGroups(lines []cart.Line, p pool, minValue decimal.Decimal) int {
	total := decimal.Zero
	for _, idx := range p.lines {
		total = total.Add(lines[idx].Price)
	}
	if total.GreaterThanOrEqual(minValue) {
		return 1
	}
	return 0
}

func distinctSubevents(lines []cart.Line, p pool) int {
	seen := make(map[string]struct{}, len(p.lines))
	for _, idx := range p.lines {
		seen[lines[idx].SubeventID] = struct{}{}
	}
	return len(seen)
}
