// Package cart holds the per-student staging area used before an order
// is placed. Carts are transient in-memory state with no durability
// guarantee; losing one is an inconvenience, not an error.
package cart

import (
	"errors"
	"sync"
)

// Quantity bounds applied to every add
const (
	MinQuantity = 1
	MaxQuantity = 10
)

// ErrCrossStall is returned when an item from another stall is added
// to a non-empty cart. A cart spans at most one stall at a time.
var ErrCrossStall = errors.New("cart may only contain items from one stall at a time")

// Line is a single cart entry
type Line struct {
	FoodItemID uint `json:"food_item_id"`
	Quantity   int  `json:"quantity"`
}

// Cart maps food items to requested quantities for one student,
// locked to the stall of its first item until it empties.
type Cart struct {
	mu      sync.Mutex
	StallID uint         `json:"stall_id"`
	Items   map[uint]int `json:"items"`
}

func newCart() *Cart {
	return &Cart{Items: make(map[uint]int)}
}

// AddItem accumulates quantity for an item, clamping each add to
// [MinQuantity, MaxQuantity]. The first add locks the cart's stall.
func (c *Cart) AddItem(itemID, stallID uint, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.Items) > 0 && c.StallID != stallID {
		return ErrCrossStall
	}
	if quantity < MinQuantity {
		quantity = MinQuantity
	}
	if quantity > MaxQuantity {
		quantity = MaxQuantity
	}
	c.Items[itemID] += quantity
	c.StallID = stallID
	return nil
}

// RemoveItem drops an entry; emptying the cart releases the stall lock
func (c *Cart) RemoveItem(itemID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.Items, itemID)
	if len(c.Items) == 0 {
		c.StallID = 0
	}
}

// Clear empties the cart and releases the stall lock
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Items = make(map[uint]int)
	c.StallID = 0
}

// Lines returns the cart contents as a slice
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	lines := make([]Line, 0, len(c.Items))
	for id, qty := range c.Items {
		lines = append(lines, Line{FoodItemID: id, Quantity: qty})
	}
	return lines
}

// Total sums quantity times the current live price of each item.
// Prices are only frozen at order creation, never in the cart.
// Items the price lookup no longer knows are skipped.
func (c *Cart) Total(priceOf func(itemID uint) (float64, bool)) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total float64
	for id, qty := range c.Items {
		if price, ok := priceOf(id); ok {
			total += float64(qty) * price
		}
	}
	return total
}

// Store keeps one cart per student and is safe for concurrent requests
type Store struct {
	mu    sync.Mutex
	carts map[uint]*Cart
}

// NewStore creates an empty cart store
func NewStore() *Store {
	return &Store{carts: make(map[uint]*Cart)}
}

// Get returns the student's cart, creating it on first use
func (s *Store) Get(studentID uint) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[studentID]
	if !ok {
		c = newCart()
		s.carts[studentID] = c
	}
	return c
}

// Drop discards the student's cart entirely
func (s *Store) Drop(studentID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, studentID)
}
