package discount

import (
	"github.com/xenking/tickart/internal/domain/cart"
)

// pool holds indices into the evaluated cart snapshot. Indices keep the
// cart declaration order, which later doubles as the stable tie-break
// for cheapest-first allocation.
type pool struct {
	subeventID string
	lines      []int
}

// filterLines selects the cart lines relevant to one side of a rule
// (condition or benefit). Pure function of its inputs.
func filterLines(lines []cart.Line, scope Scope, includeAddons, includeVoucherDiscounted bool) []int {
	selected := make([]int, 0, len(lines))
	for i, line := range lines {
		if !includeAddons && line.IsAddon {
			continue
		}
		if !includeVoucherDiscounted && line.VoucherDiscounted {
			continue
		}
		if !scope.Matches(line.ProductID, line.VariationID) {
			continue
		}
		selected = append(selected, i)
	}
	return selected
}

// conditionPools reshapes the filtered condition lines according to the
// rule's subevent mode. Under mixed and distinct modes a single pool
// spans all sub-events; under same mode the lines are partitioned per
// sub-event (first-seen order) and matched independently downstream.
func conditionPools(lines []cart.Line, selected []int, mode SubeventMode) []pool {
	if mode != SubeventModeSame {
		return []pool{{lines: selected}}
	}

	order := make([]string, 0, 4)
	bySubevent := make(map[string][]int)
	for _, idx := range selected {
		se := lines[idx].SubeventID
		if _, ok := bySubevent[se]; !ok {
			order = append(order, se)
		}
		bySubevent[se] = append(bySubevent[se], idx)
	}

	pools := make([]pool, 0, len(order))
	for _, se := range order {
		pools = append(pools, pool{subeventID: se, lines: bySubevent[se]})
	}
	return pools
}
