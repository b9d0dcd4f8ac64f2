package discount

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/tickart/internal/domain/cart"
)

func TestAllocateCheapestFirst(t *testing.T) {
	rule := validRule()
	rule.Benefit.DiscountPercent = d("100")
	rule.Benefit.CheapestNMatches = 2

	lines := []cart.Line{
		line("reduced", "30.00"),
		line("reduced", "10.00"),
		line("reduced", "20.00"),
	}
	claimed := make(claimSet)

	allocs, shortfall := allocate(lines, []int{0, 1, 2}, claimed, &rule, 1)
	require.Len(t, allocs, 2)
	assert.Equal(t, 0, shortfall)
	assert.Equal(t, 1, allocs[0].line)
	assert.Equal(t, 2, allocs[1].line)
	assert.True(t, claimed.has(1))
	assert.True(t, claimed.has(2))
	assert.False(t, claimed.has(0))
}

func TestAllocateStableTieBreak(t *testing.T) {
	rule := validRule()
	rule.Benefit.CheapestNMatches = 1

	// Equal prices: the earliest cart position wins.
	lines := []cart.Line{
		line("reduced", "23.00"),
		line("reduced", "23.00"),
		line("reduced", "23.00"),
	}
	claimed := make(claimSet)

	allocs, _ := allocate(lines, []int{0, 1, 2}, claimed, &rule, 2)
	require.Len(t, allocs, 2)
	assert.Equal(t, 0, allocs[0].line)
	assert.Equal(t, 1, allocs[1].line)
}

func TestAllocateShortfall(t *testing.T) {
	rule := validRule()
	rule.Benefit.CheapestNMatches = 1

	lines := []cart.Line{line("reduced", "23.00")}
	claimed := make(claimSet)

	// 3 groups x cap 1 = target 3, only 1 line available.
	allocs, shortfall := allocate(lines, []int{0}, claimed, &rule, 3)
	assert.Len(t, allocs, 1)
	assert.Equal(t, 2, shortfall)

	// No groups, no allocation.
	allocs, shortfall = allocate(lines, []int{0}, make(claimSet), &rule, 0)
	assert.Empty(t, allocs)
	assert.Equal(t, 0, shortfall)
}

func TestAllocateUnlimitedCap(t *testing.T) {
	rule := validRule()
	rule.Benefit.CheapestNMatches = UnlimitedMatches
	rule.Benefit.DiscountPercent = d("20")

	lines := []cart.Line{
		line("regular", "42.00"),
		line("regular", "42.00"),
		line("regular", "42.00"),
	}
	claimed := make(claimSet)

	// Unlimited cap claims every eligible line and has no shortfall.
	allocs, shortfall := allocate(lines, []int{0, 1, 2}, claimed, &rule, 1)
	assert.Len(t, allocs, 3)
	assert.Equal(t, 0, shortfall)
	for _, a := range allocs {
		assert.True(t, d("33.60").Equal(a.price))
	}
}

func TestAllocateSkipsLinesClaimedByEarlierRules(t *testing.T) {
	first := validRule()
	first.Benefit.CheapestNMatches = 1
	second := validRule()
	second.ID = "r2"
	second.Benefit.CheapestNMatches = 1
	second.Benefit.DiscountPercent = d("100")

	lines := []cart.Line{
		line("reduced", "10.00"),
		line("reduced", "20.00"),
	}
	claimed := make(claimSet)

	allocs1, _ := allocate(lines, []int{0, 1}, claimed, &first, 1)
	require.Len(t, allocs1, 1)
	assert.Equal(t, 0, allocs1[0].line)

	// The second rule sees the cheapest line as consumed.
	allocs2, _ := allocate(lines, []int{0, 1}, claimed, &second, 1)
	require.Len(t, allocs2, 1)
	assert.Equal(t, 1, allocs2[0].line)

	// Nothing left for a third pass.
	allocs3, shortfall := allocate(lines, []int{0, 1}, claimed, &second, 1)
	assert.Empty(t, allocs3)
	assert.Equal(t, 1, shortfall)
}

func TestAllocateNeverExceedsTarget(t *testing.T) {
	rule := validRule()
	rule.Benefit.CheapestNMatches = 2

	lines := make([]cart.Line, 10)
	pool := make([]int, 10)
	for i := range lines {
		lines[i] = line("reduced", "23.00")
		pool[i] = i
	}

	allocs, shortfall := allocate(lines, pool, make(claimSet), &rule, 3)
	assert.Len(t, allocs, 6)
	assert.Equal(t, 0, shortfall)
}
