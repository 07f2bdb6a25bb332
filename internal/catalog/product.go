package catalog

import "github.com/shopspring/decimal"

// Product is a catalog record as served by the product source. The source is
// the system of record; everything here is read-only once fetched. OldPrice,
// DiscountPercent and IsNew are display-only fields attached during
// ingestion (see Enrich) and are never part of the source payload.
type Product struct {
	ID               string          `json:"id"`
	Category         string          `json:"category"`
	Brand            string          `json:"brand"`
	Title            string          `json:"title"`
	ShortDescription string          `json:"short_description"`
	LongDescription  string          `json:"long_description"`
	Price            decimal.Decimal `json:"price"`
	Rating           int             `json:"rating"`
	Sizes            []string        `json:"sizes"`
	Colors           []string        `json:"colors"`
	Images           []string        `json:"images"`

	OldPrice        *decimal.Decimal `json:"old_price,omitempty"`
	DiscountPercent int              `json:"discount_percent,omitempty"`
	IsNew           bool             `json:"is_new"`
}

// HasDiscount reports whether ingestion attached discount display fields.
func (p Product) HasDiscount() bool {
	return p.DiscountPercent > 0
}

// Facets lists the distinct values the listing page builds its filter
// sidebar from. Sizes is the fixed ladder the UI renders rather than a
// per-product aggregation.
type Facets struct {
	Brands     []string `json:"brands"`
	Colors     []string `json:"colors"`
	Categories []string `json:"categories"`
	Sizes      []string `json:"sizes"`
}
