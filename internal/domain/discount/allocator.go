package discount

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/xenking/tickart/internal/domain/cart"
)

// claimSet records which cart lines have been allocated by a rule.
// It is threaded explicitly from rule to rule: the first rule to claim
// a line wins and later rules see the line as consumed.
type claimSet map[int]struct{}

func (c claimSet) has(idx int) bool {
	_, ok := c[idx]
	return ok
}

func (c claimSet) add(idx int) {
	c[idx] = struct{}{}
}

// allocation marks one cart line as discounted by a rule.
type allocation struct {
	line  int
	price decimal.Decimal
}

// allocate claims benefit-eligible lines for the given number of
// satisfied groups, cheapest first. Ties between equal prices break on
// cart position, so allocation is deterministic for identical inputs.
//
// The returned shortfall is the number of unfilled allocation slots.
// With an unlimited cap there is no fixed target to fall short of, so
// every remaining eligible line is claimed and shortfall is zero.
func allocate(lines []cart.Line, benefitPool []int, claimed claimSet, rule *Rule, groups int) ([]allocation, int) {
	if groups == 0 {
		return nil, 0
	}

	eligible := make([]int, 0, len(benefitPool))
	for _, idx := range benefitPool {
		if !claimed.has(idx) {
			eligible = append(eligible, idx)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return lines[eligible[i]].Price.LessThan(lines[eligible[j]].Price)
	})

	perGroup := rule.Benefit.CheapestNMatches
	take := len(eligible)
	shortfall := 0
	if perGroup != UnlimitedMatches {
		target := groups * perGroup
		if take > target {
			take = target
		}
		shortfall = target - take
	}

	allocs := make([]allocation, 0, take)
	for _, idx := range eligible[:take] {
		claimed.add(idx)
		allocs = append(allocs, allocation{
			line:  idx,
			price: rule.discountedPrice(lines[idx].Price),
		})
	}
	return allocs, shortfall
}
