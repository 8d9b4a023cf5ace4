// internal/domain/address/address.go
package address

import (
	"errors"
	"strings"
	"sync"
)

// ErrNotInBook is returned when selecting an address that is not part
// of the fetched list
var ErrNotInBook = errors.New("address is not in the address book")

// Address represents a delivery address owned by the user account
// server-side. The gateway holds a read-only copy.
type Address struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zipcode   string `json:"zipcode"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// FullName returns the recipient's display name
func (a Address) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// Validate checks the fields the backend requires before the request
// is sent at all
func (a Address) Validate() error {
	switch {
	case a.FirstName == "":
		return errors.New("first name is required")
	case a.Street == "":
		return errors.New("street is required")
	case a.City == "":
		return errors.New("city is required")
	case a.Zipcode == "":
		return errors.New("zipcode is required")
	case a.Country == "":
		return errors.New("country is required")
	case a.Phone == "":
		return errors.New("phone is required")
	}
	return nil
}

// Book holds the fetched address list plus a single selection. The
// selected address is always a member of the list, or absent.
type Book struct {
	mu       sync.Mutex
	list     []Address
	selected string
}

// NewBook creates an empty address book
func NewBook() *Book {
	return &Book{}
}

// Replace swaps the list for a freshly fetched one. A still-valid
// selection is kept, otherwise the first address is selected.
func (b *Book) Replace(list []Address) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.list = make([]Address, len(list))
	copy(b.list, list)

	if b.selected != "" {
		for _, a := range b.list {
			if a.ID == b.selected {
				return
			}
		}
	}
	if len(b.list) > 0 {
		b.selected = b.list[0].ID
	} else {
		b.selected = ""
	}
}

// Select marks the address with the given id as selected
func (b *Book) Select(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, a := range b.list {
		if a.ID == id {
			b.selected = id
			return nil
		}
	}
	return ErrNotInBook
}

// Selected returns the currently selected address
func (b *Book) Selected() (Address, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, a := range b.list {
		if a.ID == b.selected {
			return a, true
		}
	}
	return Address{}, false
}

// List returns a copy of the fetched addresses
func (b *Book) List() []Address {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Address, len(b.list))
	copy(out, b.list)
	return out
}

// Clear drops the list and the selection
func (b *Book) Clear() {
	b.mu.Lock()
	b.list = nil
	b.selected = ""
	b.mu.Unlock()
}
