package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/xenking/tickart/internal/domain/discount"
)

const (
	listActiveRulesSQL = `SELECT id, name, subevent_mode,
			condition_all_products, condition_limit_products,
			condition_apply_to_addons, condition_ignore_voucher_discounted,
			condition_min_count, condition_min_value,
			benefit_same_products, benefit_limit_products,
			benefit_discount_percent, benefit_cheapest_n_matches,
			benefit_apply_to_addons, benefit_ignore_voucher_discounted
		FROM discount_rules
		WHERE active
		ORDER BY position, id`

	upsertRuleSQL = `INSERT INTO discount_rules (id, name, position, active, subevent_mode,
			condition_all_products, condition_limit_products,
			condition_apply_to_addons, condition_ignore_voucher_discounted,
			condition_min_count, condition_min_value,
			benefit_same_products, benefit_limit_products,
			benefit_discount_percent, benefit_cheapest_n_matches,
			benefit_apply_to_addons, benefit_ignore_voucher_discounted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (id) DO UPDATE SET
			name = $2, position = $3, active = $4, subevent_mode = $5,
			condition_all_products = $6, condition_limit_products = $7,
			condition_apply_to_addons = $8, condition_ignore_voucher_discounted = $9,
			condition_min_count = $10, condition_min_value = $11,
			benefit_same_products = $12, benefit_limit_products = $13,
			benefit_discount_percent = $14, benefit_cheapest_n_matches = $15,
			benefit_apply_to_addons = $16, benefit_ignore_voucher_discounted = $17`
)

var _ discount.Repository = (*RuleRepository)(nil)

// RuleRepository implements discount.Repository backed by PostgreSQL.
// Rules come back ordered by position, which the engine treats as the
// deterministic evaluation order.
type RuleRepository struct {
	pool *pgxpool.Pool
}

// NewRuleRepository returns a RuleRepository that uses the given pool.
func NewRuleRepository(pool *pgxpool.Pool) *RuleRepository {
	return &RuleRepository{pool: pool}
}

// ActiveRules loads all active discount rules in evaluation order.
func (r *RuleRepository) ActiveRules(ctx context.Context) ([]discount.Rule, error) {
	rows, err := r.pool.Query(ctx, listActiveRulesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing discount rules: %w", err)
	}
	return pgx.CollectRows(rows, scanRule)
}

func scanRule(row pgx.CollectableRow) (discount.Rule, error) {
	var (
		rule discount.Rule

		conditionAll   bool
		conditionSet   []string
		benefitSet     []string
		minValue       decimal.Decimal
		percent        decimal.Decimal
		subeventMode   string
		cheapestN      int32
		conditionCount int32
	)
	err := row.Scan(
		&rule.ID, &rule.Name, &subeventMode,
		&conditionAll, &conditionSet,
		&rule.Condition.ApplyToAddons, &rule.Condition.IgnoreVoucherDiscounted,
		&conditionCount, &minValue,
		&rule.Benefit.SameProducts, &benefitSet,
		&percent, &cheapestN,
		&rule.Benefit.ApplyToAddons, &rule.Benefit.IgnoreVoucherDiscounted,
	)
	if err != nil {
		return discount.Rule{}, fmt.Errorf("scanning discount rule: %w", err)
	}

	rule.SubeventMode = discount.SubeventMode(subeventMode)
	rule.Condition.MinCount = int(conditionCount)
	rule.Condition.MinValue = minValue
	rule.Condition.Scope = scopeFrom(conditionAll, conditionSet)
	rule.Benefit.DiscountPercent = percent
	rule.Benefit.CheapestNMatches = int(cheapestN)
	if !rule.Benefit.SameProducts {
		rule.Benefit.Scope = discount.Products(benefitSet...)
	}
	return rule, nil
}

func scopeFrom(all bool, products []string) discount.Scope {
	if all {
		return discount.AllProducts()
	}
	return discount.Products(products...)
}

// StoredRule pairs a rule with its persistence-only attributes.
type StoredRule struct {
	Rule     discount.Rule
	Position int
	Active   bool
}

// UpsertRule inserts or updates one discount rule. Used by the seeder.
func (r *RuleRepository) UpsertRule(ctx context.Context, stored StoredRule) error {
	rule := stored.Rule
	_, err := r.pool.Exec(ctx, upsertRuleSQL,
		rule.ID, rule.Name, stored.Position, stored.Active, string(rule.SubeventMode),
		rule.Condition.Scope.IsAll(), rule.Condition.Scope.ProductIDs(),
		rule.Condition.ApplyToAddons, rule.Condition.IgnoreVoucherDiscounted,
		rule.Condition.MinCount, rule.Condition.MinValue,
		rule.Benefit.SameProducts, rule.Benefit.Scope.ProductIDs(),
		rule.Benefit.DiscountPercent, rule.Benefit.CheapestNMatches,
		rule.Benefit.ApplyToAddons, rule.Benefit.IgnoreVoucherDiscounted,
	)
	if err != nil {
		return fmt.Errorf("upserting discount rule %q: %w", rule.ID, err)
	}
	return nil
}
