package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProducts() []Product {
	return []Product{
		{ID: "p1", Name: "Golden Apple", Category: "Fruits", Price: 3, OfferPrice: 2.5, InStock: true},
		{ID: "p2", Name: "Baguette", Category: "Bakery", Price: 2, OfferPrice: 1.8, InStock: true},
		{ID: "p3", Name: "Green Apple", Category: "fruits", Price: 3, OfferPrice: 2.2, InStock: false},
	}
}

func TestReplaceAndLookup(t *testing.T) {
	s := NewStore()
	assert.Equal(t, 0, s.Len())

	s.Replace(testProducts())
	require.Equal(t, 3, s.Len())

	p, ok := s.Lookup("p2")
	require.True(t, ok)
	assert.Equal(t, "Baguette", p.Name)

	_, ok = s.Lookup("missing")
	assert.False(t, ok)
}

func TestReplaceSwapsWholesale(t *testing.T) {
	s := NewStore()
	s.Replace(testProducts())

	s.Replace([]Product{{ID: "p9", Name: "Pear", Category: "Fruits", OfferPrice: 1}})

	assert.Equal(t, 1, s.Len())
	_, ok := s.Lookup("p1")
	assert.False(t, ok)
}

func TestOfferPrice(t *testing.T) {
	s := NewStore()
	s.Replace(testProducts())

	price, ok := s.OfferPrice("p1")
	require.True(t, ok)
	assert.Equal(t, 2.5, price)

	_, ok = s.OfferPrice("missing")
	assert.False(t, ok)
}

func TestByCategoryIsCaseInsensitive(t *testing.T) {
	s := NewStore()
	s.Replace(testProducts())

	fruits := s.ByCategory("FRUITS")
	require.Len(t, fruits, 2)
	assert.Equal(t, "p1", fruits[0].ID)
	assert.Equal(t, "p3", fruits[1].ID)

	assert.Empty(t, s.ByCategory("Dairy"))
}

func TestSearch(t *testing.T) {
	s := NewStore()
	s.Replace(testProducts())

	apples := s.Search("apple")
	require.Len(t, apples, 2)

	// blank query returns everything
	assert.Len(t, s.Search("   "), 3)
	assert.Empty(t, s.Search("durian"))
}

func TestListReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Replace(testProducts())

	list := s.List()
	list[0].Name = "mutated"

	p, _ := s.Lookup("p1")
	assert.Equal(t, "Golden Apple", p.Name)
}
