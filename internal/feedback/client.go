package feedback

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/lauracastellan/velora-backend/pkg/errors"
)

const errorBodyReadLimit int64 = 1024

var errSinkURLRequired = errors.New("feedback sink url is required")

// Submission is the payload the contact form sends.
type Submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Comment string `json:"comment"`
}

// Client forwards contact-form submissions to the external feedback sink.
// Failures surface to the caller; there is no retry here.
type Client struct {
	httpClient *http.Client
	sinkURL    string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient builds a feedback client for the given sink URL.
func NewClient(sinkURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(sinkURL)
	if trimmed == "" {
		return nil, errSinkURLRequired
	}

	client := &Client{
		sinkURL:    trimmed,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// Submit forwards one submission to the sink.
func (c *Client) Submit(ctx context.Context, submission Submission) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "feedback client not configured")
	}

	payload, err := json.Marshal(submission)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal feedback submission")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.sinkURL, bytes.NewReader(payload))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build feedback request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute feedback request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return pkgerrors.Wrap(
			pkgerrors.CodeDependency,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
			"feedback sink rejected submission",
		)
	}

	return nil
}
