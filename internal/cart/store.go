package cart

import (
	"sync"
	"time"

	"github.com/lauracastellan/velora-backend/internal/catalog"
	"github.com/shopspring/decimal"
)

// Store owns one session's cart. All mutation goes through the reducer; the
// store only serializes access and tracks when the session was last touched
// so idle carts can be evicted.
type Store struct {
	mu         sync.Mutex
	state      State
	lastActive time.Time
}

// NewStore returns a store holding an empty cart.
func NewStore() *Store {
	return &Store{state: NewState(), lastActive: time.Now()}
}

// Add merges a selection into the cart. A line with the same
// (product, size, color) key grows by quantity; otherwise a new line is
// appended preserving insertion order.
func (s *Store) Add(product catalog.Product, size, color string, quantity int) State {
	return s.dispatch(Command{
		Type:     CommandAdd,
		Product:  product,
		Size:     size,
		Color:    color,
		Quantity: quantity,
	})
}

// Remove deletes the line matching the composite key; absent keys are a
// no-op.
func (s *Store) Remove(productID, size, color string) State {
	return s.dispatch(Command{
		Type:      CommandRemove,
		ProductID: productID,
		Size:      size,
		Color:     color,
	})
}

// UpdateQuantity overwrites a line's quantity. Zero or negative removes the
// line; absent keys are a no-op.
func (s *Store) UpdateQuantity(productID, size, color string, quantity int) State {
	return s.dispatch(Command{
		Type:      CommandUpdateQuantity,
		ProductID: productID,
		Size:      size,
		Color:     color,
		Quantity:  quantity,
	})
}

// Clear empties the cart.
func (s *Store) Clear() State {
	return s.dispatch(Command{Type: CommandClear})
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.state
}

// ItemCount returns the badge count: the sum of quantities across lines.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.state.ItemCount()
}

// Total returns the derived cart total.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.state.Total
}

// LastActive reports when the cart was last read or mutated.
func (s *Store) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *Store) dispatch(cmd Command) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.state = Reduce(s.state, cmd)
	return s.state
}

func (s *Store) touch() {
	s.lastActive = time.Now()
}
