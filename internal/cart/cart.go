// Package cart holds the client-side purchase intent. The cart never lives
// on the server: it is serialized into a storage partition keyed by the
// current identity, mirroring how the storefront keeps it in browser local
// storage.
package cart

import (
	"encoding/json"
	"fmt"

	"kaaswinkel/internal/storage"
)

// Item is one cart line. UnitPrice is in euros; the checkout layer converts
// to minor units.
type Item struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"price"`
	Quantity  int     `json:"qty"`
}

const guestKey = "cart:guest"

// Cart is an explicit store object bound to one identity partition at a
// time. It is not safe for concurrent use; concurrent tabs racing on the
// same partition resolve last-write-wins, as local storage does.
type Cart struct {
	store storage.Store
	key   string
	items []Item
}

// New loads the guest partition from store.
func New(store storage.Store) (*Cart, error) {
	c := &Cart{store: store, key: guestKey}
	if err := c.load(); err != nil {
		return nil, err
	}
	return c, nil
}

// AddItem merges delta into the quantity for item.ID. A resulting quantity
// of zero or less removes the line; a non-positive delta for an unknown
// product is a no-op.
func (c *Cart) AddItem(item Item, delta int) error {
	for i, existing := range c.items {
		if existing.ID != item.ID {
			continue
		}
		qty := existing.Quantity + delta
		if qty <= 0 {
			c.items = append(c.items[:i], c.items[i+1:]...)
		} else {
			c.items[i].Quantity = qty
		}
		return c.flush()
	}
	if delta <= 0 {
		return nil
	}
	item.Quantity = delta
	c.items = append(c.items, item)
	return c.flush()
}

// RemoveItem drops the line for id regardless of quantity.
func (c *Cart) RemoveItem(id string) error {
	for i, existing := range c.items {
		if existing.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return c.flush()
		}
	}
	return nil
}

// Clear empties the current partition.
func (c *Cart) Clear() error {
	c.items = nil
	return c.flush()
}

// Items returns a copy of the current lines.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Count is the sum of line quantities. Recomputed, never stored.
func (c *Cart) Count() int {
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

// Total is the sum of unit price times quantity, in euros.
func (c *Cart) Total() float64 {
	var sum float64
	for _, it := range c.items {
		sum += it.UnitPrice * float64(it.Quantity)
	}
	return sum
}

// Login switches the cart to the partition of the authenticated user. A
// guest cart is adopted (moved) into the user partition only when that
// partition is empty; otherwise the user's own cart wins and the guest
// items stay behind.
func (c *Cart) Login(userID string) error {
	guestItems := c.items
	fromGuest := c.key == guestKey

	c.key = userKey(userID)
	if err := c.load(); err != nil {
		return err
	}
	if fromGuest && len(c.items) == 0 && len(guestItems) > 0 {
		c.items = guestItems
		if err := c.flush(); err != nil {
			return err
		}
		return c.store.Delete(guestKey)
	}
	return nil
}

// Logout returns to the guest partition and wipes it, so the next anonymous
// visitor does not inherit this identity's cart.
func (c *Cart) Logout() error {
	c.key = guestKey
	c.items = nil
	return c.store.Delete(guestKey)
}

func userKey(userID string) string {
	return "cart:user:" + userID
}

func (c *Cart) load() error {
	c.items = nil
	raw, ok := c.store.Get(c.key)
	if !ok || raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), &c.items); err != nil {
		return fmt.Errorf("parse cart %s: %w", c.key, err)
	}
	return nil
}

func (c *Cart) flush() error {
	if len(c.items) == 0 {
		return c.store.Delete(c.key)
	}
	raw, err := json.Marshal(c.items)
	if err != nil {
		return err
	}
	return c.store.Set(c.key, string(raw))
}
