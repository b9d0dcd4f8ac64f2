package discount

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/tickart/internal/domain/cart"
	"github.com/xenking/tickart/internal/domain/catalog"
)

// Result holds the output of one evaluation: per-line discounted prices
// aligned positionally with the input cart, and the aggregated
// cross-selling recommendations grouped by catalog category.
type Result struct {
	Prices          []decimal.Decimal
	Recommendations []CategoryRecommendations
}

// Evaluate runs all rules against the cart snapshot and returns the
// discounted price of every line plus the recommendation list.
//
// Rules are evaluated in declaration order of the supplied slice; the
// storage layer loads them ordered by position, so the order is stable
// across calls for the same rule set. The call is pure: inputs are never
// mutated and identical inputs yield identical outputs.
//
// Validation failures abort the call before any computation; no partial
// result is ever returned.
func Evaluate(lines []cart.Line, rules []Rule, ix *catalog.Index) (*Result, error) {
	for i := range rules {
		if err := rules[i].Validate(); err != nil {
			return nil, err
		}
	}
	if err := cart.ValidateLines(lines); err != nil {
		return nil, err
	}

	prices := make([]decimal.Decimal, len(lines))
	for i, line := range lines {
		prices[i] = line.Price
	}

	claimed := make(claimSet, len(lines))
	rec := newRecommender(ix)

	for i := range rules {
		rule := &rules[i]

		condLines := filterLines(lines,
			rule.Condition.Scope,
			rule.Condition.ApplyToAddons,
			!rule.Condition.IgnoreVoucherDiscounted,
		)
		pools := conditionPools(lines, condLines, rule.SubeventMode)
		groups := matchGroups(lines, pools, rule.Condition, rule.SubeventMode)
		if groups == 0 {
			continue
		}

		benefitLines := filterLines(lines,
			rule.benefitScope(),
			rule.Benefit.ApplyToAddons,
			!rule.Benefit.IgnoreVoucherDiscounted,
		)
		allocs, shortfall := allocate(lines, benefitLines, claimed, rule, groups)
		for _, a := range allocs {
			prices[a.line] = a.price
		}
		rec.collect(rule, shortfall)
	}

	return &Result{
		Prices:          prices,
		Recommendations: rec.grouped(),
	}, nil
}
