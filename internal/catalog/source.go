package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/lauracastellan/velora-backend/pkg/errors"
)

const errorBodyReadLimit int64 = 1024

var errBaseURLRequired = errors.New("product source base url is required")

// SourceClient fetches catalog records from the remote product source. The
// source is read-only; failures surface as typed errors and are never
// retried here.
type SourceClient struct {
	httpClient *http.Client
	baseURL    string
}

// SourceOption configures optional client behavior.
type SourceOption func(*SourceClient)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) SourceOption {
	return func(c *SourceClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) SourceOption {
	return func(c *SourceClient) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewSourceClient builds a product source client for the given base URL.
func NewSourceClient(baseURL string, opts ...SourceOption) (*SourceClient, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}

	client := &SourceClient{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// List fetches the full product list in source order. Records come back raw;
// display enrichment happens at ingestion in the service layer.
func (c *SourceClient) List(ctx context.Context) ([]Product, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "product source client not configured")
	}

	body, err := c.get(ctx, c.baseURL+"/products")
	if err != nil {
		return nil, err
	}

	var products []Product
	if err := json.Unmarshal(body, &products); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode product list")
	}
	return products, nil
}

// GetByID fetches a single product record or a not-found error.
func (c *SourceClient) GetByID(ctx context.Context, id string) (*Product, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "product source client not configured")
	}
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	body, err := c.get(ctx, c.baseURL+"/products/"+url.PathEscape(trimmed))
	if err != nil {
		return nil, err
	}

	var product Product
	if err := json.Unmarshal(body, &product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode product")
	}
	return &product, nil
}

func (c *SourceClient) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build product source request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute product source request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, pkgerrors.Wrap(
			pkgerrors.CodeDependency,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
			"product source request failed",
		)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read product source response")
	}
	return body, nil
}
