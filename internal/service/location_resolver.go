package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mgnrega-api/internal/apperror"
	"mgnrega-api/internal/metrics"
	"mgnrega-api/internal/models"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("mgnrega-api/internal/service")

// DefaultResolveBudget is the end-to-end deadline for one resolution.
const DefaultResolveBudget = 25 * time.Second

// Stage is a state of a single resolution attempt.
type Stage string

const (
	StageIdle      Stage = "idle"
	StageGeocoding Stage = "geocoding"
	StageMatching  Stage = "matching"
	StageResolved  Stage = "resolved"
	StageFailed    Stage = "failed"
)

// Geocoder interface for dependency injection
type Geocoder interface {
	Resolve(ctx context.Context, coord models.Coordinate) (*models.GeocodeResult, error)
}

// DistrictMatcher interface for dependency injection
type DistrictMatcher interface {
	Guess(addr models.RawAddress) string
	Match(addr models.RawAddress, catalog *models.DistrictCatalog) *models.CanonicalDistrict
}

// CoordinateSource supplies the device position. Its failures are device level
// (apperror.KindDeviceUnavailable, KindPermissionDenied, KindPositionUnavailable).
type CoordinateSource interface {
	Coordinate(ctx context.Context) (models.Coordinate, error)
}

// LocationResolver turns a coordinate into a catalog district: geocode, then match.
type LocationResolver struct {
	geocoder Geocoder
	matcher  DistrictMatcher
	budget   time.Duration
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// ResolverOption configures a LocationResolver.
type ResolverOption func(*LocationResolver)

// WithBudget sets the end-to-end deadline spanning geocoding and matching.
func WithBudget(d time.Duration) ResolverOption {
	return func(r *LocationResolver) {
		if d > 0 {
			r.budget = d
		}
	}
}

// WithResolverMetrics records resolution outcomes on m.
func WithResolverMetrics(m *metrics.Metrics) ResolverOption {
	return func(r *LocationResolver) { r.metrics = m }
}

// WithResolverLogger replaces the global logger.
func WithResolverLogger(l zerolog.Logger) ResolverOption {
	return func(r *LocationResolver) { r.logger = l }
}

// NewLocationResolver creates a new location resolver
func NewLocationResolver(geocoder Geocoder, matcher DistrictMatcher, opts ...ResolverOption) *LocationResolver {
	r := &LocationResolver{
		geocoder: geocoder,
		matcher:  matcher,
		budget:   DefaultResolveBudget,
		logger:   log.Logger,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// ResolveFrom reads a coordinate from src and resolves it. Device failures are returned unchanged.
func (r *LocationResolver) ResolveFrom(ctx context.Context, src CoordinateSource, catalog *models.DistrictCatalog) (*models.LocationResolution, error) {
	coord, err := src.Coordinate(ctx)
	if err != nil {
		r.metrics.IncResolution(string(StageFailed))
		return nil, err
	}
	return r.Resolve(ctx, coord, catalog)
}

type geocodeOutcome struct {
	res *models.GeocodeResult
	err error
}

// Resolve geocodes coord and matches the address against catalog. An unmatched address is a
// successful resolution with Available false; only geocoding failures and the deadline fail the call.
func (r *LocationResolver) Resolve(ctx context.Context, coord models.Coordinate, catalog *models.DistrictCatalog) (*models.LocationResolution, error) {
	ctx, span := tracer.Start(ctx, "LocationResolver.Resolve", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, r.budget)
	defer cancel()

	stage := StageIdle
	fail := func(err error) (*models.LocationResolution, error) {
		r.enter(&stage, StageFailed)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(apperror.KindOf(err)))
		return nil, err
	}

	r.enter(&stage, StageGeocoding)
	// cancel() on return aborts the provider call if the deadline fires first.
	done := make(chan geocodeOutcome, 1)
	go func() {
		res, err := r.geocoder.Resolve(ctx, coord)
		done <- geocodeOutcome{res: res, err: err}
	}()

	var geo geocodeOutcome
	select {
	case geo = <-done:
	case <-ctx.Done():
		return fail(deadlineError(ctx, stage))
	}
	if geo.err != nil {
		if apperror.KindOf(geo.err) == apperror.KindUnknown && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fail(deadlineError(ctx, stage))
		}
		return fail(geo.err)
	}

	r.enter(&stage, StageMatching)
	guess := r.matcher.Guess(geo.res.Address)
	matched := r.matcher.Match(geo.res.Address, catalog)
	if err := ctx.Err(); err != nil {
		return fail(deadlineError(ctx, stage))
	}

	resolution := &models.LocationResolution{
		Coordinate:       coord,
		RawDistrictGuess: guess,
		RawState:         geo.res.Address.State(),
		Matched:          matched,
		Available:        matched != nil && catalog.HasData(*matched),
		FormattedAddress: geo.res.FormattedAddress,
	}
	r.enter(&stage, StageResolved)

	span.SetAttributes(
		attribute.String("district.guess", guess),
		attribute.Bool("district.available", resolution.Available),
	)
	r.metrics.IncResolution(fmt.Sprintf("%s_available_%t", StageResolved, resolution.Available))
	return resolution, nil
}

func (r *LocationResolver) enter(stage *Stage, next Stage) {
	r.logger.Debug().Str("from", string(*stage)).Str("to", string(next)).Msg("location resolution stage")
	*stage = next
	if next == StageFailed {
		r.metrics.IncResolution(string(StageFailed))
	}
}

func deadlineError(ctx context.Context, stage Stage) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperror.New(apperror.KindTimeout, "resolve", fmt.Errorf("deadline exceeded during %s: %w", stage, ctx.Err()))
	}
	return fmt.Errorf("service: resolve: %w", ctx.Err())
}
