package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexLookup(t *testing.T) {
	categories := []Category{
		{
			Name: "Tickets",
			Products: []Product{
				{ID: "regular", Name: "Regular Ticket", Price: decimal.RequireFromString("42.00"), Category: "Tickets"},
				{ID: "reduced", Name: "Reduced Ticket", Price: decimal.RequireFromString("23.00"), Category: "Tickets"},
			},
		},
		{
			Name: "Extras",
			Products: []Product{
				// duplicate listing keeps the first occurrence
				{ID: "regular", Name: "Regular Ticket", Price: decimal.RequireFromString("99.00"), Category: "Extras"},
			},
		},
	}

	ix := NewIndex(categories)
	assert.Equal(t, categories, ix.Categories())

	p, ok := ix.Product("reduced")
	require.True(t, ok)
	assert.Equal(t, "Reduced Ticket", p.Name)

	p, ok = ix.Product("regular")
	require.True(t, ok)
	assert.Equal(t, "Tickets", p.Category)

	_, ok = ix.Product("vip")
	assert.False(t, ok)
}
