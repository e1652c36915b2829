// Package geocode turns a device coordinate into a structured address using an external
// reverse geocoding provider.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"time"

	"mgnrega-api/internal/apperror"
	"mgnrega-api/internal/metrics"
	"mgnrega-api/internal/models"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultTimeout bounds a single provider call when no timeout is configured.
const DefaultTimeout = 20 * time.Second

const op = "geocode"

// Provider performs one reverse geocoding request.
type Provider interface {
	Reverse(ctx context.Context, coord models.Coordinate) (*models.GeocodeResult, error)
}

// Client validates input, bounds the provider call with a timeout and classifies failures.
// It never retries.
type Client struct {
	provider Provider
	timeout  time.Duration
	fields   []string
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithFields overrides which address fields count as usable district data.
func WithFields(fields []string) Option {
	return func(c *Client) {
		if len(fields) > 0 {
			c.fields = fields
		}
	}
}

// WithMetrics records call outcomes and latencies on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithLogger replaces the global logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a geocoding client over provider.
func NewClient(provider Provider, opts ...Option) *Client {
	c := &Client{
		provider: provider,
		timeout:  DefaultTimeout,
		fields:   models.DistrictFields,
		logger:   log.Logger,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Resolve returns the provider's address for coord. A successful result always has at least
// one non-empty district field.
func (c *Client) Resolve(ctx context.Context, coord models.Coordinate) (*models.GeocodeResult, error) {
	if !coord.Valid() {
		return nil, apperror.New(apperror.KindInvalidInput, op,
			fmt.Errorf("coordinate out of range: lat=%f lon=%f", coord.Latitude, coord.Longitude))
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	res, err := c.provider.Reverse(ctx, coord)
	if err == nil && (res == nil || res.Address.First(c.fields) == "") {
		err = apperror.New(apperror.KindNoAddressData, op, nil)
	} else if err != nil {
		err = classify(ctx, err)
	}

	outcome := "ok"
	if err != nil {
		outcome = string(apperror.KindOf(err))
		if outcome == "" {
			outcome = "canceled"
		}
		c.logger.Warn().Err(err).
			Float64("lat", round3(coord.Latitude)).
			Float64("lon", round3(coord.Longitude)).
			Msg("reverse geocoding failed")
	}
	c.metrics.ObserveGeocode(outcome, time.Since(start))

	if err != nil {
		return nil, err
	}
	return res, nil
}

func classify(ctx context.Context, err error) error {
	var statusErr *StatusError
	var netErr net.Error

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		return apperror.New(apperror.KindTimeout, op, err)
	case errors.Is(ctx.Err(), context.Canceled):
		// The caller gave up; that is not a provider failure.
		return fmt.Errorf("%s: %w", op, err)
	case errors.As(err, &statusErr):
		return apperror.WithStatus(apperror.KindProviderError, op, statusErr.Code, err)
	case errors.Is(err, ErrMalformedResponse):
		return apperror.New(apperror.KindProviderError, op, err)
	case errors.As(err, &netErr) && netErr.Timeout():
		return apperror.New(apperror.KindTimeout, op, err)
	default:
		return apperror.New(apperror.KindProviderUnreachable, op, err)
	}
}

// round3 rounds to three decimals, roughly 110m, for logging.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
