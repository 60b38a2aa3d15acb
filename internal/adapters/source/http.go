package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bytedance/sonic"

	"github.com/refsight/refsight/internal/domain/model"
	"github.com/refsight/refsight/pkg/metrics"
)

// Default client configuration constants.
const (
	defaultFetchTimeout = 15 * time.Second
	maxBodyBytes        = 16 << 20 // markers for a full game stay well under this
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.hc = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.hc.Timeout = d
		}
	}
}

// Client implements MarkerSource, SurfaceSource, and JobSource against the
// upstream detection backend's REST API.
type Client struct {
	base string
	hc   *http.Client
}

// NewClient creates an upstream client for the given base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		base: baseURL,
		hc:   &http.Client{Timeout: defaultFetchTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchMarkers fetches the marker set for a game.
func (c *Client) FetchMarkers(ctx context.Context, gameID string) ([]model.Marker, error) {
	var env markersEnvelope
	path := "/api/games/" + url.PathEscape(gameID) + "/markers"
	if err := c.getJSON(ctx, path, &env); err != nil {
		return nil, err
	}
	return decodeMarkers(env), nil
}

// FetchSurfaces fetches the analysis surfaces for an event.
func (c *Client) FetchSurfaces(ctx context.Context, eventID string) ([]model.AnalysisSurface, error) {
	var env surfacesEnvelope
	path := "/api/events/" + url.PathEscape(eventID) + "/surfaces"
	if err := c.getJSON(ctx, path, &env); err != nil {
		return nil, err
	}
	return decodeSurfaces(env), nil
}

// FetchJobs fetches the current ingestion job statuses.
func (c *Client) FetchJobs(ctx context.Context) ([]model.IngestionJob, error) {
	var env jobsEnvelope
	if err := c.getJSON(ctx, "/api/jobs", &env); err != nil {
		return nil, err
	}
	return decodeJobs(env), nil
}

// getJSON performs one GET round trip and decodes the body into v.
func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	start := time.Now()
	defer func() {
		metrics.RecordFetchLatency(float64(time.Since(start).Milliseconds()))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		metrics.RecordFetchError()
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		metrics.RecordFetchError()
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordFetchError()
		return fmt.Errorf("%w: %s returned %d", ErrUpstream, path, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.RecordFetchError()
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if err := sonic.Unmarshal(body, v); err != nil {
		metrics.RecordFetchError()
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}
