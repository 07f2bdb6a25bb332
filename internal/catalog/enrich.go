package catalog

import (
	"hash/fnv"

	"github.com/shopspring/decimal"
)

const (
	discountMinPercent  = 10
	discountPercentSpan = 30
)

var oneHundred = decimal.NewFromInt(100)

// Enrich returns a decorated copy of a fetched product. A discount is
// attached when the product's position in the source list is divisible by 3,
// and the new-arrival flag when it is divisible by 5. A negative index marks
// an unknown position and attaches nothing. The source record is never
// mutated.
func Enrich(p Product, index int) Product {
	out := p
	out.OldPrice = nil
	out.DiscountPercent = 0
	out.IsNew = false

	if index < 0 {
		return out
	}

	if index%3 == 0 {
		pct := discountPercent(p.ID)
		old := p.Price.
			Mul(oneHundred.Add(decimal.NewFromInt(int64(pct)))).
			Div(oneHundred).
			Round(2)
		out.DiscountPercent = pct
		out.OldPrice = &old
	}

	out.IsNew = index%5 == 0
	return out
}

// EnrichAll decorates a full source fetch in list order.
func EnrichAll(products []Product) []Product {
	out := make([]Product, len(products))
	for i, p := range products {
		out[i] = Enrich(p, i)
	}
	return out
}

// discountPercent derives a stable percent in [10,39] from the product id,
// so the old price shown for a product does not change between re-fetches.
func discountPercent(id string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return discountMinPercent + int(h.Sum32()%discountPercentSpan)
}
