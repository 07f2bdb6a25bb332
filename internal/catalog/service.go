package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	pkgerrors "github.com/lauracastellan/velora-backend/pkg/errors"
	"github.com/lauracastellan/velora-backend/pkg/metrics"
	"github.com/lauracastellan/velora-backend/pkg/redis"
)

// sizeLadder is the fixed size scale the listing sidebar offers.
var sizeLadder = []string{"2XS", "XS", "S", "M", "L", "XL", "2XL", "3XL"}

const topRatedLimit = 100

type sourceLoader interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
}

type snapshotCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CatalogKey(parts ...string) string
}

// Service exposes catalog reads: the filtered listing, single products and
// the derived home-page views.
type Service interface {
	List(ctx context.Context, spec FilterSpec) ([]Product, int, error)
	Get(ctx context.Context, id string) (*Product, error)
	Discounted(ctx context.Context) ([]Product, error)
	NewArrivals(ctx context.Context) ([]Product, error)
	TopRated(ctx context.Context) ([]Product, error)
	Facets(ctx context.Context) (*Facets, error)
}

type service struct {
	source   sourceLoader
	cache    snapshotCache
	metrics  *metrics.CatalogMetrics
	cacheTTL time.Duration
}

// ServiceParams bundles the catalog service dependencies. Cache and Metrics
// are optional; the service degrades to direct fetches without them.
type ServiceParams struct {
	Source   sourceLoader
	Cache    snapshotCache
	Metrics  *metrics.CatalogMetrics
	CacheTTL time.Duration
}

// NewService builds a catalog service backed by the provided stack.
func NewService(params ServiceParams) (Service, error) {
	if params.Source == nil {
		return nil, fmt.Errorf("product source required")
	}
	return &service{
		source:   params.Source,
		cache:    params.Cache,
		metrics:  params.Metrics,
		cacheTTL: params.CacheTTL,
	}, nil
}

// List applies the filter specification to the enriched catalog and returns
// the visible subset in display order together with its count.
func (s *service) List(ctx context.Context, spec FilterSpec) ([]Product, int, error) {
	products, err := s.loadAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	visible := Apply(products, spec)
	return visible, len(visible), nil
}

// Get returns a single enriched product. The source list position is not
// known on the detail path, so enrichment keys off the numeric id the way
// ingestion positions line up in the source; non-numeric ids get no display
// decoration.
func (s *service) Get(ctx context.Context, id string) (*Product, error) {
	product, err := s.source.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	index := -1
	if parsed, convErr := strconv.Atoi(id); convErr == nil && parsed >= 0 {
		index = parsed
	}
	enriched := Enrich(*product, index)
	return &enriched, nil
}

// Discounted returns the enriched products carrying a discount.
func (s *service) Discounted(ctx context.Context) ([]Product, error) {
	products, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]Product, 0, len(products))
	for _, p := range products {
		if p.HasDiscount() {
			result = append(result, p)
		}
	}
	return result, nil
}

// NewArrivals returns the enriched products flagged as new.
func (s *service) NewArrivals(ctx context.Context) ([]Product, error) {
	products, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]Product, 0, len(products))
	for _, p := range products {
		if p.IsNew {
			result = append(result, p)
		}
	}
	return result, nil
}

// TopRated returns the catalog ordered by rating descending, capped.
func (s *service) TopRated(ctx context.Context) ([]Product, error) {
	products, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]Product, len(products))
	copy(result, products)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Rating > result[j].Rating
	})
	if len(result) > topRatedLimit {
		result = result[:topRatedLimit]
	}
	return result, nil
}

// Facets aggregates the distinct filterable values in catalog order.
func (s *service) Facets(ctx context.Context) (*Facets, error) {
	products, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	facets := &Facets{
		Brands:     distinct(products, func(p Product) []string { return []string{p.Brand} }),
		Colors:     distinct(products, func(p Product) []string { return p.Colors }),
		Categories: distinct(products, func(p Product) []string { return []string{p.Category} }),
		Sizes:      append([]string(nil), sizeLadder...),
	}
	return facets, nil
}

// loadAll returns the enriched catalog snapshot, via the cache when one is
// wired. Cache failures other than a miss degrade to a direct fetch; the
// cache is best-effort, never a correctness dependency.
func (s *service) loadAll(ctx context.Context) ([]Product, error) {
	var cacheKey string
	if s.cache != nil {
		cacheKey = s.cache.CatalogKey("products")
		payload, err := s.cache.Get(ctx, cacheKey)
		if err == nil {
			var cached []Product
			if unmarshalErr := json.Unmarshal([]byte(payload), &cached); unmarshalErr == nil {
				s.metrics.IncCacheHit()
				return cached, nil
			}
		}
		s.metrics.IncCacheMiss()
	}

	start := time.Now()
	raw, err := s.source.List(ctx)
	s.metrics.ObserveFetch("list", time.Since(start))
	if err != nil {
		s.metrics.IncFetchFailure("list")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch products")
	}
	s.metrics.IncFetchSuccess("list")

	enriched := EnrichAll(raw)

	if s.cache != nil {
		if payload, marshalErr := json.Marshal(enriched); marshalErr == nil {
			_ = s.cache.Set(ctx, cacheKey, string(payload), s.cacheTTL)
		}
	}

	return enriched, nil
}

func distinct(products []Product, extract func(Product) []string) []string {
	seen := map[string]struct{}{}
	var result []string
	for _, p := range products {
		for _, value := range extract(p) {
			if value == "" {
				continue
			}
			if _, ok := seen[value]; ok {
				continue
			}
			seen[value] = struct{}{}
			result = append(result, value)
		}
	}
	return result
}

// ensure the concrete redis client satisfies the cache surface.
var _ snapshotCache = (*redis.Client)(nil)
