// Package prismic is a minimal client for the Prismic REST API v2 used to fetch posts at build time.
package prismic

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout bounds each HTTP request when no client is supplied.
const DefaultTimeout = 10 * time.Second

// Client queries a single Prismic repository.
type Client struct {
	endpoint    string
	accessToken string
	http        *http.Client
	log         *slog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithAccessToken sets the token sent with every request.
func WithAccessToken(token string) Option {
	return func(c *Client) { c.accessToken = token }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger attaches a logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a client for an API endpoint such as https://ignews.cdn.prismic.io/api/v2.
func New(endpoint string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("endpoint %q must be an http(s) URL", endpoint)
	}

	c := &Client{
		endpoint: strings.TrimRight(u.String(), "/"),
		http:     &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c, nil
}

// Query resolves the master ref and runs one search request. It does not follow next_page.
func (c *Client) Query(ctx context.Context, predicates []Predicate, opts QueryOptions) (*Response, error) {
	ref, err := c.masterRef(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("ref", ref)
	if len(predicates) > 0 {
		params.Set("q", encodeQuery(predicates))
	}
	if len(opts.Fetch) > 0 {
		params.Set("fetch", strings.Join(opts.Fetch, ","))
	}
	if opts.PageSize > 0 {
		params.Set("pageSize", strconv.Itoa(opts.PageSize))
	}

	var resp Response
	if err := c.get(ctx, c.endpoint+"/documents/search", params, &resp); err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}

	c.log.Debug("prismic query",
		slog.String("q", params.Get("q")),
		slog.Int("results", len(resp.Results)),
		slog.Int("total", resp.TotalResultsSize),
	)
	return &resp, nil
}

func (c *Client) masterRef(ctx context.Context) (string, error) {
	var api API
	if err := c.get(ctx, c.endpoint, url.Values{}, &api); err != nil {
		return "", fmt.Errorf("fetch api root: %w", err)
	}
	ref, ok := api.Master()
	if !ok {
		return "", fmt.Errorf("api root has no master ref")
	}
	return ref, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if c.accessToken != "" {
		params.Set("access_token", c.accessToken)
	}
	target := endpoint
	if encoded := params.Encode(); encoded != "" {
		target += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return fmt.Errorf("unexpected status %s: %s", res.Status, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
