// internal/domain/cart/cart.go
package cart

import (
	"math"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// PriceLookup resolves the effective unit price for a product id.
// The catalog store implements this; the cart never caches prices.
type PriceLookup interface {
	OfferPrice(id string) (float64, bool)
}

// Line is a checkout-ready cart entry, serialized with the wire keys
// the order endpoints expect.
type Line struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"quantity"`
}

// TaxRate is applied to the subtotal, floored to match the displayed
// arithmetic.
const TaxRate = 0.02

// Cart maintains the quantity mapping for one session and mirrors it to
// the remote store while an owner is present. Local state is
// authoritative; the remote copy is best-effort.
type Cart struct {
	mu     sync.Mutex
	items  map[string]int
	prices PriceLookup
	log    *logrus.Entry

	// remote sync bookkeeping, see sync.go
	syncFn        SyncFunc
	version       uint64
	syncedVersion uint64
	syncing       bool
	lastSyncErr   error
}

// New creates an empty cart
func New(prices PriceLookup, log *logrus.Entry) *Cart {
	return &Cart{
		items:  make(map[string]int),
		prices: prices,
		log:    log,
	}
}

// Add increments the quantity for a product by one. Always succeeds
// locally.
func (c *Cart) Add(productID string) {
	c.mu.Lock()
	c.items[productID]++
	c.bumpLocked()
	c.mu.Unlock()
}

// SetQuantity sets the quantity for a product. A quantity of zero or
// less removes the entry; it is never stored. No upper bound is
// enforced here, stock limits are the backend's responsibility.
func (c *Cart) SetQuantity(productID string, quantity int) {
	c.mu.Lock()
	if quantity <= 0 {
		if _, ok := c.items[productID]; !ok {
			c.mu.Unlock()
			return
		}
		delete(c.items, productID)
	} else {
		c.items[productID] = quantity
	}
	c.bumpLocked()
	c.mu.Unlock()
}

// Remove deletes the entry for a product. Removing an absent id is a
// no-op.
func (c *Cart) Remove(productID string) {
	c.mu.Lock()
	if _, ok := c.items[productID]; !ok {
		c.mu.Unlock()
		return
	}
	delete(c.items, productID)
	c.bumpLocked()
	c.mu.Unlock()
}

// Replace swaps the whole mapping, dropping non-positive quantities.
// Used to seed the cart from a persisted server-side copy.
func (c *Cart) Replace(items map[string]int) {
	next := make(map[string]int, len(items))
	for id, qty := range items {
		if qty > 0 {
			next[id] = qty
		}
	}

	c.mu.Lock()
	c.items = next
	c.bumpLocked()
	c.mu.Unlock()
}

// Clear resets the cart to an empty mapping
func (c *Cart) Clear() {
	c.mu.Lock()
	c.items = make(map[string]int)
	c.bumpLocked()
	c.mu.Unlock()
}

// Items returns a copy of the quantity mapping
func (c *Cart) Items() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int, len(c.items))
	for id, qty := range c.items {
		out[id] = qty
	}
	return out
}

// Quantity returns the quantity for a product, zero if absent
func (c *Cart) Quantity(productID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items[productID]
}

// Count returns the sum of all quantities
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, qty := range c.items {
		total += qty
	}
	return total
}

// IsEmpty reports whether the cart holds no entries
func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items) == 0
}

// Amount returns the subtotal: the sum of offer price times quantity
// over every entry whose product id resolves in the catalog. Entries
// that no longer resolve contribute nothing.
func (c *Cart) Amount() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total float64
	for id, qty := range c.items {
		price, ok := c.prices.OfferPrice(id)
		if !ok {
			continue
		}
		total += price * float64(qty)
	}
	return round2(total)
}

// Tax returns the tax on the current subtotal
func (c *Cart) Tax() float64 {
	return TaxOn(c.Amount())
}

// GrandTotal returns subtotal plus tax
func (c *Cart) GrandTotal() float64 {
	subtotal := c.Amount()
	return subtotal + TaxOn(subtotal)
}

// TaxOn computes the tax for a given subtotal, floored
func TaxOn(subtotal float64) float64 {
	return math.Floor(subtotal * TaxRate)
}

// Lines returns checkout lines for every entry that resolves in the
// catalog, in stable id order. Unresolvable entries are excluded the
// same way Amount excludes them.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	lines := make([]Line, 0, len(c.items))
	for id, qty := range c.items {
		if _, ok := c.prices.OfferPrice(id); !ok {
			continue
		}
		lines = append(lines, Line{ProductID: id, Quantity: qty})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
	return lines
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
