package health

import (
	"context"
	"fmt"
	"runtime"
)

// GoroutineCountCheck returns a liveness check that fails when the
// goroutine count exceeds the given threshold, hinting at a leak.
func GoroutineCountCheck(threshold int) CheckFunc {
	return func(ctx context.Context) error {
		count := runtime.NumGoroutine()
		if count > threshold {
			return fmt.Errorf("too many goroutines: %d > %d", count, threshold)
		}
		return nil
	}
}
