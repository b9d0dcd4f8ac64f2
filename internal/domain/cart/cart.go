package cart

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// NoParent marks a line that is not an add-on to any other line.
const NoParent = -1

// Line is a read-only snapshot of one cart position. The engine never
// mutates lines; discounted prices are produced as a parallel output.
type Line struct {
	ProductID   string
	VariationID string
	SubeventID  string
	Price       decimal.Decimal
	IsAddon     bool
	// ParentLine is the index of the line this add-on belongs to,
	// or NoParent when IsAddon is false.
	ParentLine        int
	VoucherDiscounted bool
}

// InvalidLineError indicates a malformed cart line at a specific index.
type InvalidLineError struct {
	Index  int
	Reason string
}

func (e *InvalidLineError) Error() string {
	return fmt.Sprintf("cart line %d: %s", e.Index, e.Reason)
}

// ValidateLines checks structural requirements on a cart snapshot before
// evaluation. It fails closed: the first offending line aborts validation.
func ValidateLines(lines []Line) error {
	for i, line := range lines {
		if line.ProductID == "" {
			return &InvalidLineError{Index: i, Reason: "missing product reference"}
		}
		if line.Price.IsNegative() {
			return &InvalidLineError{Index: i, Reason: "negative price"}
		}
		if line.IsAddon {
			if line.ParentLine < 0 || line.ParentLine >= len(lines) || line.ParentLine == i {
				return &InvalidLineError{Index: i, Reason: "add-on references invalid parent line"}
			}
		}
	}
	return nil
}
