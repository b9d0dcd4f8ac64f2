package discount

import "context"

// Repository supplies the active rule set in evaluation order.
// The engine itself never touches storage; it consumes the rules as a
// read-only snapshot per evaluation.
type Repository interface {
	ActiveRules(ctx context.Context) ([]Rule, error)
}
