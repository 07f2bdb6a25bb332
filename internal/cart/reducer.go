package cart

import (
	"github.com/lauracastellan/velora-backend/internal/catalog"
	"github.com/shopspring/decimal"
)

// CommandType tags a cart mutation.
type CommandType string

const (
	CommandAdd            CommandType = "add"
	CommandRemove         CommandType = "remove"
	CommandUpdateQuantity CommandType = "update_quantity"
	CommandClear          CommandType = "clear"
)

// Command is one cart mutation. Add carries the full product record so the
// line item snapshots the price it was added at; the other commands address
// an existing line by its composite key.
type Command struct {
	Type      CommandType
	Product   catalog.Product
	ProductID string
	Size      string
	Color     string
	Quantity  int
}

// LineItem is one (product, size, color) selection with a quantity. Two
// lines with the same composite key never coexist; adds merge instead.
type LineItem struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
	Size     string          `json:"selected_size"`
	Color    string          `json:"selected_color"`
}

// State is the cart contents plus the derived total. Total is always
// recomputed from the full item list, never adjusted incrementally, so it
// cannot drift from the items under any mutation path.
type State struct {
	Items []LineItem      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// NewState returns an empty cart.
func NewState() State {
	return State{Items: []LineItem{}, Total: decimal.Zero}
}

// ItemCount sums quantities across all lines, which is what the header badge
// shows; it is not the number of lines.
func (s State) ItemCount() int {
	count := 0
	for _, item := range s.Items {
		count += item.Quantity
	}
	return count
}

// Reduce applies one command to a cart state and returns the next state.
// The input state is never modified. Remove and UpdateQuantity on a missing
// key are no-ops; UpdateQuantity with a non-positive quantity removes the
// line.
func Reduce(state State, cmd Command) State {
	switch cmd.Type {
	case CommandAdd:
		items := cloneItems(state.Items)
		merged := false
		for i := range items {
			if matchesKey(items[i], cmd.Product.ID, cmd.Size, cmd.Color) {
				items[i].Quantity += cmd.Quantity
				merged = true
				break
			}
		}
		if !merged {
			items = append(items, LineItem{
				Product:  cmd.Product,
				Quantity: cmd.Quantity,
				Size:     cmd.Size,
				Color:    cmd.Color,
			})
		}
		return State{Items: items, Total: computeTotal(items)}

	case CommandRemove:
		items := removeKey(state.Items, cmd.ProductID, cmd.Size, cmd.Color)
		return State{Items: items, Total: computeTotal(items)}

	case CommandUpdateQuantity:
		if cmd.Quantity <= 0 {
			items := removeKey(state.Items, cmd.ProductID, cmd.Size, cmd.Color)
			return State{Items: items, Total: computeTotal(items)}
		}
		items := cloneItems(state.Items)
		for i := range items {
			if matchesKey(items[i], cmd.ProductID, cmd.Size, cmd.Color) {
				items[i].Quantity = cmd.Quantity
				break
			}
		}
		return State{Items: items, Total: computeTotal(items)}

	case CommandClear:
		return NewState()
	}

	return state
}

func computeTotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func matchesKey(item LineItem, productID, size, color string) bool {
	return item.Product.ID == productID && item.Size == size && item.Color == color
}

func removeKey(items []LineItem, productID, size, color string) []LineItem {
	result := make([]LineItem, 0, len(items))
	for _, item := range items {
		if matchesKey(item, productID, size, color) {
			continue
		}
		result = append(result, item)
	}
	return result
}

func cloneItems(items []LineItem) []LineItem {
	result := make([]LineItem, len(items))
	copy(result, items)
	return result
}
