// internal/domain/catalog/catalog.go
package catalog

import (
	"strings"
	"sync"
)

// Product represents a catalog entry as served by the commerce API.
// Products are immutable between loads; the store is refreshed by full
// replacement, never patched.
type Product struct {
	ID         string   `json:"_id"`
	Name       string   `json:"name"`
	Category   string   `json:"category"`
	Price      float64  `json:"price"`
	OfferPrice float64  `json:"offerPrice"`
	Images     []string `json:"image"`
	InStock    bool     `json:"inStock"`
}

// Store holds the product catalog shared by all sessions
type Store struct {
	mu   sync.RWMutex
	byID map[string]Product
	list []Product
}

// NewStore creates an empty catalog store
func NewStore() *Store {
	return &Store{
		byID: make(map[string]Product),
	}
}

// Replace swaps the whole catalog for a freshly fetched product list
func (s *Store) Replace(products []Product) {
	byID := make(map[string]Product, len(products))
	list := make([]Product, len(products))
	copy(list, products)
	for _, p := range products {
		byID[p.ID] = p
	}

	s.mu.Lock()
	s.byID = byID
	s.list = list
	s.mu.Unlock()
}

// Lookup returns the product with the given id
func (s *Store) Lookup(id string) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[id]
	return p, ok
}

// OfferPrice resolves the effective unit price for a product id.
// Cart totals are computed against this; ids that no longer resolve
// report false and are skipped by the caller.
func (s *Store) OfferPrice(id string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[id]
	if !ok {
		return 0, false
	}
	return p.OfferPrice, true
}

// List returns a copy of the full product list
func (s *Store) List() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Product, len(s.list))
	copy(out, s.list)
	return out
}

// ByCategory returns products in the given category (case-insensitive)
func (s *Store) ByCategory(category string) []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Product
	for _, p := range s.list {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out
}

// Search returns products whose name contains the query (case-insensitive)
func (s *Store) Search(query string) []Product {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return s.List()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Product
	for _, p := range s.list {
		if strings.Contains(strings.ToLower(p.Name), query) {
			out = append(out, p)
		}
	}
	return out
}

// Len returns the number of products currently loaded
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.list)
}
