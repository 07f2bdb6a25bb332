package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// SortMode orders a filtered result set.
type SortMode string

const (
	SortDefault   SortMode = "default"
	SortPriceLow  SortMode = "price-low"
	SortPriceHigh SortMode = "price-high"
	SortRating    SortMode = "rating"
)

// ParseSortMode validates a sort mode supplied by a caller. Empty input maps
// to the default mode.
func ParseSortMode(value string) (SortMode, error) {
	switch SortMode(strings.TrimSpace(value)) {
	case "", SortDefault:
		return SortDefault, nil
	case SortPriceLow:
		return SortPriceLow, nil
	case SortPriceHigh:
		return SortPriceHigh, nil
	case SortRating:
		return SortRating, nil
	}
	return "", fmt.Errorf("unknown sort mode %q", value)
}

// FilterSpec captures the listing page's active constraints. Empty selection
// sets impose no restriction; nil price bounds leave that side open.
type FilterSpec struct {
	Brands   []string
	Colors   []string
	Sizes    []string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     SortMode
}

// Matches reports whether a product satisfies every active constraint.
// Brand must be a member of the selected set; for colors and sizes it is
// enough that one of the product's values is selected; price is an inclusive
// range check.
func (s FilterSpec) Matches(p Product) bool {
	if len(s.Brands) > 0 && !contains(s.Brands, p.Brand) {
		return false
	}
	if len(s.Colors) > 0 && !containsAny(s.Colors, p.Colors) {
		return false
	}
	if len(s.Sizes) > 0 && !containsAny(s.Sizes, p.Sizes) {
		return false
	}
	if s.MinPrice != nil && p.Price.LessThan(*s.MinPrice) {
		return false
	}
	if s.MaxPrice != nil && p.Price.GreaterThan(*s.MaxPrice) {
		return false
	}
	return true
}

// Apply computes the visible subset in display order: filter pass first,
// then a stable sort so ties keep source order. A min bound above the max
// bound produces an empty result rather than an error.
func Apply(products []Product, spec FilterSpec) []Product {
	result := make([]Product, 0, len(products))
	for _, p := range products {
		if spec.Matches(p) {
			result = append(result, p)
		}
	}

	switch spec.Sort {
	case SortPriceLow:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Price.LessThan(result[j].Price)
		})
	case SortPriceHigh:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Price.GreaterThan(result[j].Price)
		})
	case SortRating:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Rating > result[j].Rating
		})
	}

	return result
}

func contains(set []string, value string) bool {
	for _, entry := range set {
		if entry == value {
			return true
		}
	}
	return false
}

func containsAny(set, values []string) bool {
	for _, value := range values {
		if contains(set, value) {
			return true
		}
	}
	return false
}
