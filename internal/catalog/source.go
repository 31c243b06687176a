package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"
)

const (
	defaultBaseURL              = "https://fakestoreapi.com"
	defaultTimeout              = 10 * time.Second
	responseBodyReadLimit int64 = 1024
)

// Source lists products from the remote demo API.
type Source interface {
	List(ctx context.Context) ([]Product, error)
	ListLimited(ctx context.Context, n int) ([]Product, error)
}

// RemoteClient talks to a fakestoreapi-compatible endpoint.
type RemoteClient struct {
	httpClient *http.Client
	baseURL    string
	retries    uint64
	backoff    time.Duration
	metrics    *metrics.Storefront
}

// Option configures optional client behavior.
type Option func(*RemoteClient)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *RemoteClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the remote base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *RemoteClient) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithTimeout bounds each remote call.
func WithTimeout(d time.Duration) Option {
	return func(c *RemoteClient) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d, Transport: c.httpClient.Transport}
		}
	}
}

// WithRetries retries transport errors and 5xx responses with exponential backoff.
func WithRetries(n uint64, backoff time.Duration) Option {
	return func(c *RemoteClient) {
		c.retries = n
		if backoff > 0 {
			c.backoff = backoff
		}
	}
}

// WithMetrics records fetch latency and failures.
func WithMetrics(m *metrics.Storefront) Option {
	return func(c *RemoteClient) {
		c.metrics = m
	}
}

func NewRemoteClient(opts ...Option) *RemoteClient {
	client := &RemoteClient{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    defaultBaseURL,
		backoff:    250 * time.Millisecond,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client
}

// remoteProduct mirrors the API payload; rating is ignored.
type remoteProduct struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
}

func (c *RemoteClient) List(ctx context.Context) ([]Product, error) {
	return c.fetch(ctx, "products", nil)
}

func (c *RemoteClient) ListLimited(ctx context.Context, n int) ([]Product, error) {
	if n <= 0 {
		return []Product{}, nil
	}
	return c.fetch(ctx, "products_limited", url.Values{"limit": []string{strconv.Itoa(n)}})
}

func (c *RemoteClient) fetch(ctx context.Context, endpoint string, query url.Values) (products []Product, err error) {
	started := time.Now()
	defer func() {
		c.metrics.ObserveRemoteFetch(endpoint, time.Since(started), err)
	}()

	target := strings.TrimRight(c.baseURL, "/") + "/products"
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	backoff := retry.WithMaxRetries(c.retries, retry.NewExponential(c.backoff))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		var attemptErr error
		products, attemptErr = c.get(ctx, target)
		return attemptErr
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (c *RemoteClient) get(ctx context.Context, target string) ([]Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build products request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, retry.RetryableError(pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute products request"))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		statusErr := pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "products request failed")
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, retry.RetryableError(statusErr)
		}
		return nil, statusErr
	}

	var payload []remoteProduct
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode products response")
	}

	products := make([]Product, 0, len(payload))
	for _, p := range payload {
		products = append(products, Product{
			ID:          p.ID,
			Title:       p.Title,
			Price:       p.Price,
			Image:       p.Image,
			Description: p.Description,
			Category:    p.Category,
			Source:      SourceRemote,
		})
	}
	return products, nil
}
