package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lauracastellan/velora-backend/internal/catalog"
	pkgerrors "github.com/lauracastellan/velora-backend/pkg/errors"
)

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// ParseQueryCSV splits a comma separated query value into trimmed,
// non-empty entries. A missing parameter yields nil.
func ParseQueryCSV(r *http.Request, key string) []string {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil
	}
	var values []string
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(part); v != "" {
			values = append(values, v)
		}
	}
	return values
}

func ParseQueryDecimal(r *http.Request, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a decimal number").WithDetails(map[string]any{"field": key})
	}
	if value.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must not be negative").WithDetails(map[string]any{"field": key})
	}
	return &value, nil
}

// ParseFilterSpec assembles the listing constraints from the request's query
// string: brands/colors/sizes as CSV sets, min_price/max_price as inclusive
// decimal bounds, and sort as one of the supported modes.
func ParseFilterSpec(r *http.Request) (catalog.FilterSpec, error) {
	spec := catalog.FilterSpec{
		Brands: ParseQueryCSV(r, "brands"),
		Colors: ParseQueryCSV(r, "colors"),
		Sizes:  ParseQueryCSV(r, "sizes"),
	}

	minPrice, err := ParseQueryDecimal(r, "min_price")
	if err != nil {
		return catalog.FilterSpec{}, err
	}
	spec.MinPrice = minPrice

	maxPrice, err := ParseQueryDecimal(r, "max_price")
	if err != nil {
		return catalog.FilterSpec{}, err
	}
	spec.MaxPrice = maxPrice

	sortMode, err := catalog.ParseSortMode(r.URL.Query().Get("sort"))
	if err != nil {
		return catalog.FilterSpec{}, pkgerrors.New(pkgerrors.CodeValidation, "unsupported sort mode").WithDetails(map[string]any{"field": "sort", "allowed": []string{
			string(catalog.SortDefault),
			string(catalog.SortPriceLow),
			string(catalog.SortPriceHigh),
			string(catalog.SortRating),
		}})
	}
	spec.Sort = sortMode

	return spec, nil
}
