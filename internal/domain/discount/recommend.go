package discount

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/tickart/internal/domain/catalog"
)

// Recommendation is one cross-selling entry: an additional purchase that
// would consume part of a rule's shortfall.
type Recommendation struct {
	ProductID       string
	ProductName     string
	Price           decimal.Decimal
	DiscountedPrice decimal.Decimal
	MaxQuantity     int
}

// CategoryRecommendations groups recommendations under one catalog
// category, in catalog declaration order.
type CategoryRecommendations struct {
	Category string
	Items    []Recommendation
}

// recommender accumulates upsell candidates across all evaluated rules.
// When several rules leave a shortfall on the same product, the
// quantities add up and the first rule's pricing wins.
type recommender struct {
	catalog *catalog.Index
	byID    map[string]*Recommendation
}

func newRecommender(ix *catalog.Index) *recommender {
	return &recommender{catalog: ix, byID: make(map[string]*Recommendation)}
}

// collect converts a rule's shortfall into upsell candidates.
//
// Same-product benefits are suppressed: recommending "buy more of X to
// get X cheaper" is a circular incentive, and the condition side of such
// a rule is already fully covered by the cart.
func (rec *recommender) collect(rule *Rule, shortfall int) {
	if shortfall == 0 || rule.Benefit.SameProducts {
		return
	}
	for _, productID := range rule.benefitScope().ProductIDs() {
		p, ok := rec.catalog.Product(productID)
		if !ok {
			continue
		}
		if existing, ok := rec.byID[productID]; ok {
			existing.MaxQuantity += shortfall
			continue
		}
		rec.byID[productID] = &Recommendation{
			ProductID:       p.ID,
			ProductName:     p.Name,
			Price:           p.Price.Round(2),
			DiscountedPrice: rule.discountedPrice(p.Price),
			MaxQuantity:     shortfall,
		}
	}
}

// grouped renders the accumulated candidates grouped by category,
// preserving category and product declaration order. Categories without
// recommendations are omitted.
func (rec *recommender) grouped() []CategoryRecommendations {
	var result []CategoryRecommendations
	for _, c := range rec.catalog.Categories() {
		var items []Recommendation
		for _, p := range c.Products {
			if entry, ok := rec.byID[p.ID]; ok {
				items = append(items, *entry)
			}
		}
		if len(items) > 0 {
			result = append(result, CategoryRecommendations{Category: c.Name, Items: items})
		}
	}
	return result
}
