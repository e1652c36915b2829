// Package catalog is a client for an upstream MGNREGA catalog service that exposes
// states, districts and per-district statistics over HTTP.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mgnrega-api/internal/models"

	"golang.org/x/sync/errgroup"
)

// StatusError is a non-success answer from the catalog service.
type StatusError struct {
	Code     int
	Endpoint string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog: %s returned status %d %s", e.Endpoint, e.Code, http.StatusText(e.Code))
}

// Config configures a Client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// Concurrency bounds the per-state requests made while building the whole catalog.
	Concurrency int
	HTTPClient  *http.Client
}

// Client talks to the catalog service.
type Client struct {
	baseURL     string
	timeout     time.Duration
	concurrency int
	httpClient  *http.Client
}

// NewClient creates a catalog client.
func NewClient(cfg Config) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		timeout:     cfg.Timeout,
		concurrency: cfg.Concurrency,
		httpClient:  cfg.HTTPClient,
	}
	if c.timeout <= 0 {
		c.timeout = 15 * time.Second
	}
	if c.concurrency <= 0 {
		c.concurrency = 4
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Transport: http.DefaultTransport}
	}
	return c
}

// States lists the states known to the catalog.
func (c *Client) States(ctx context.Context) ([]string, error) {
	var states []string
	if err := c.getJSON(ctx, "/states", &states); err != nil {
		return nil, err
	}
	return states, nil
}

// DistrictsByState lists the districts with data for state.
func (c *Client) DistrictsByState(ctx context.Context, state string) ([]string, error) {
	var districts []string
	if err := c.getJSON(ctx, "/districts/state/"+url.PathEscape(state), &districts); err != nil {
		return nil, err
	}
	return districts, nil
}

// AllDistricts lists every district with data.
func (c *Client) AllDistricts(ctx context.Context) ([]string, error) {
	var districts []string
	if err := c.getJSON(ctx, "/districts", &districts); err != nil {
		return nil, err
	}
	return districts, nil
}

// Summary fetches the summary statistics of district. A non-empty state is sent as a query
// parameter so the service can tell apart districts that share a name.
func (c *Client) Summary(ctx context.Context, district, state string) (models.SummaryStats, error) {
	var stats models.SummaryStats
	if err := c.getJSON(ctx, districtPath(district, "", state), &stats); err != nil {
		return models.SummaryStats{}, err
	}
	return stats, nil
}

// Series fetches the monthly series of district, in the order the service returns it.
func (c *Client) Series(ctx context.Context, district, state string) ([]models.MonthlyPoint, error) {
	var series []models.MonthlyPoint
	if err := c.getJSON(ctx, districtPath(district, "/chart", state), &series); err != nil {
		return nil, err
	}
	return series, nil
}

func districtPath(district, suffix, state string) string {
	p := "/districts/" + url.PathEscape(district) + suffix
	if state != "" {
		p += "?" + url.Values{"state": {state}}.Encode()
	}
	return p
}

// Catalog builds the full district catalog by listing states and then each state's districts.
// Every district the service lists has data.
func (c *Client) Catalog(ctx context.Context) (*models.DistrictCatalog, error) {
	states, err := c.States(ctx)
	if err != nil {
		return nil, err
	}

	perState := make([][]string, len(states))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, state := range states {
		i, state := i, state
		g.Go(func() error {
			districts, err := c.DistrictsByState(gctx, state)
			if err != nil {
				return fmt.Errorf("catalog: districts of %q: %w", state, err)
			}
			perState[i] = districts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var entries []models.CatalogEntry
	for i, state := range states {
		for _, d := range perState[i] {
			entries = append(entries, models.CatalogEntry{District: d, State: state, HasData: true})
		}
	}
	return models.NewDistrictCatalog(entries), nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("catalog: building request for %s: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("catalog: request to %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &StatusError{Code: resp.StatusCode, Endpoint: endpoint}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("catalog: decoding %s: %w", endpoint, err)
	}
	return nil
}
