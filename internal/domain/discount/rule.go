package discount

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SubeventMode controls how cart lines from different sub-events are
// pooled when counting condition groups.
type SubeventMode string

const (
	// SubeventModeMixed pools lines from all sub-events together.
	SubeventModeMixed SubeventMode = "mixed"
	// SubeventModeSame counts groups independently per sub-event.
	SubeventModeSame SubeventMode = "same"
	// SubeventModeDistinct forms each group from distinct sub-events,
	// drawing at most one unit per sub-event.
	SubeventModeDistinct SubeventMode = "distinct"
)

// UnlimitedMatches selects uncapped benefit allocation: every eligible
// line is discounted once a group is satisfied.
const UnlimitedMatches = 0

// Scope selects either the whole catalog or an explicit product and
// variation set. The zero value is invalid; construct via AllProducts or
// Products, which makes the "both set" state unrepresentable.
type Scope struct {
	all        bool
	products   []string
	productSet map[string]struct{}
	variations map[string]struct{}
}

// AllProducts returns a scope matching every product.
func AllProducts() Scope {
	return Scope{all: true}
}

// Products returns a scope matching exactly the given product IDs,
// preserving declaration order.
func Products(ids ...string) Scope {
	set := make(map[string]struct{}, len(ids))
	ordered := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := set[id]; ok {
			continue
		}
		set[id] = struct{}{}
		ordered = append(ordered, id)
	}
	return Scope{products: ordered, productSet: set}
}

// WithVariations returns a copy of the scope that additionally matches
// the given variation IDs.
func (s Scope) WithVariations(ids ...string) Scope {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	s.variations = set
	return s
}

// IsAll reports whether the scope matches every product.
func (s Scope) IsAll() bool { return s.all }

// ProductIDs returns the explicit product set in declaration order.
// It is empty for an all-products scope.
func (s Scope) ProductIDs() []string { return s.products }

// Matches reports whether a line with the given product and variation
// falls inside the scope.
func (s Scope) Matches(productID, variationID string) bool {
	if s.all {
		return true
	}
	if _, ok := s.productSet[productID]; ok {
		return true
	}
	if variationID != "" {
		if _, ok := s.variations[variationID]; ok {
			return true
		}
	}
	return false
}

func (s Scope) empty() bool {
	return !s.all && len(s.productSet) == 0 && len(s.variations) == 0
}

// Condition describes the purchase threshold that unlocks a rule.
// Exactly one of MinCount and MinValue must be positive.
type Condition struct {
	Scope                   Scope
	ApplyToAddons           bool
	IgnoreVoucherDiscounted bool
	MinCount                int
	MinValue                decimal.Decimal
}

// Benefit describes the price reduction granted per satisfied group.
type Benefit struct {
	// SameProducts reuses the condition scope as the benefit pool.
	// When false, Scope must name an explicit product set.
	SameProducts            bool
	Scope                   Scope
	DiscountPercent         decimal.Decimal
	CheapestNMatches        int
	ApplyToAddons           bool
	IgnoreVoucherDiscounted bool
}

// Rule is an immutable description of one discount: a condition that
// must be met and a benefit granted for each satisfied group.
type Rule struct {
	ID           string
	Name         string
	SubeventMode SubeventMode
	Condition    Condition
	Benefit      Benefit
}

// InvalidRuleError indicates a malformed rule definition, identifying
// the rule and the offending field.
type InvalidRuleError struct {
	RuleID string
	Field  string
	Reason string
}

func (e *InvalidRuleError) Error() string {
	return fmt.Sprintf("discount rule %q: %s: %s", e.RuleID, e.Field, e.Reason)
}

func (r *Rule) invalid(field, reason string) error {
	return &InvalidRuleError{RuleID: r.ID, Field: field, Reason: reason}
}

var hundred = decimal.NewFromInt(100)

// Validate checks the rule definition. Malformed rules are rejected
// before any evaluation takes place.
func (r *Rule) Validate() error {
	switch r.SubeventMode {
	case SubeventModeMixed, SubeventModeSame, SubeventModeDistinct:
	default:
		return r.invalid("subevent_mode", fmt.Sprintf("unknown mode %q", r.SubeventMode))
	}

	if r.Condition.MinCount < 0 {
		return r.invalid("condition_min_count", "must not be negative")
	}
	if r.Condition.MinValue.IsNegative() {
		return r.invalid("condition_min_value", "must not be negative")
	}
	countBased := r.Condition.MinCount > 0
	valueBased := r.Condition.MinValue.IsPositive()
	if countBased && valueBased {
		return r.invalid("condition_min_count", "count and value thresholds are mutually exclusive")
	}
	if !countBased && !valueBased {
		return r.invalid("condition_min_count", "either a count or a value threshold is required")
	}
	if r.Condition.Scope.empty() {
		return r.invalid("condition_limit_products", "explicit scope must name at least one product")
	}

	if !r.Benefit.SameProducts {
		if r.Benefit.Scope.IsAll() {
			return r.invalid("benefit_limit_products", "explicit benefit scope must not be all products")
		}
		if r.Benefit.Scope.empty() {
			return r.invalid("benefit_limit_products", "explicit scope must name at least one product")
		}
	}
	if r.Benefit.DiscountPercent.IsNegative() || r.Benefit.DiscountPercent.GreaterThan(hundred) {
		return r.invalid("benefit_discount_matching_percent", "must be between 0 and 100")
	}
	if r.Benefit.CheapestNMatches < 0 {
		return r.invalid("benefit_only_apply_to_cheapest_n_matches", "must not be negative")
	}
	return nil
}

// benefitScope resolves the pool the benefit draws from.
func (r *Rule) benefitScope() Scope {
	if r.Benefit.SameProducts {
		return r.Condition.Scope
	}
	return r.Benefit.Scope
}

// discountedPrice applies the rule's percentage to a unit price, rounded
// half-up to the currency's minor unit.
func (r *Rule) discountedPrice(price decimal.Decimal) decimal.Decimal {
	factor := hundred.Sub(r.Benefit.DiscountPercent).Div(hundred)
	return price.Mul(factor).Round(2)
}
