package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"mgnrega-api/internal/models"

	"golang.org/x/time/rate"
)

// ErrMalformedResponse is returned when the provider answers 200 with a body that is not valid JSON.
var ErrMalformedResponse = errors.New("malformed provider response")

// StatusError is a non-success HTTP answer from the provider.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider returned status %d %s", e.Code, e.Status)
}

// NominatimConfig configures a NominatimProvider.
type NominatimConfig struct {
	BaseURL   string
	UserAgent string
	Zoom      int
	// RateLimit is the allowed requests per second. Zero disables limiting.
	RateLimit  float64
	HTTPClient *http.Client
}

// NominatimProvider reverse geocodes coordinates with an OpenStreetMap Nominatim server.
type NominatimProvider struct {
	baseURL    string
	userAgent  string
	zoom       int
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewNominatimProvider creates a provider. The HTTP client carries no timeout of its own;
// deadlines come from the request context.
func NewNominatimProvider(cfg NominatimConfig) *NominatimProvider {
	p := &NominatimProvider{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		zoom:       cfg.Zoom,
		httpClient: cfg.HTTPClient,
	}
	if p.baseURL == "" {
		p.baseURL = "https://nominatim.openstreetmap.org"
	}
	if p.userAgent == "" {
		p.userAgent = "MGNREGA-Dashboard/1.0"
	}
	if p.zoom == 0 {
		p.zoom = 10
	}
	if p.httpClient == nil {
		p.httpClient = &http.Client{Transport: http.DefaultTransport}
	}
	if cfg.RateLimit > 0 {
		p.limiter = rate.NewLimiter(rate.Every(time.Duration(float64(time.Second)/cfg.RateLimit)), 1)
	}
	return p
}

type nominatimResponse struct {
	DisplayName string         `json:"display_name"`
	Address     map[string]any `json:"address"`
	Error       string         `json:"error"`
}

// Reverse issues a single /reverse request for coord.
func (p *NominatimProvider) Reverse(ctx context.Context, coord models.Coordinate) (*models.GeocodeResult, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			// Wait refuses up front when the slot lies beyond the deadline.
			return nil, fmt.Errorf("nominatim: rate limit wait: %w", context.DeadlineExceeded)
		}
	}

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(coord.Latitude, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(coord.Longitude, 'f', -1, 64))
	params.Set("format", "jsonv2")
	params.Set("addressdetails", "1")
	params.Set("zoom", strconv.Itoa(p.zoom))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/reverse?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("nominatim: building request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nominatim: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{Code: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
	}

	var body nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("nominatim: %w: %v", ErrMalformedResponse, err)
	}

	// Nominatim reports "Unable to geocode" with a 200 and no address.
	address := make(models.RawAddress, len(body.Address))
	for k, v := range body.Address {
		if s, ok := v.(string); ok {
			address[k] = s
		}
	}

	return &models.GeocodeResult{
		Address:          address,
		FormattedAddress: body.DisplayName,
	}, nil
}
