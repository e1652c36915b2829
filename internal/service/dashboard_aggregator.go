package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mgnrega-api/internal/apperror"
	"mgnrega-api/internal/metrics"
	"mgnrega-api/internal/models"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// DefaultDashboardTimeout bounds a shared fetch once callers are joined on it.
const DefaultDashboardTimeout = 30 * time.Second

// DashboardRepository interface for dependency injection. Both legs are keyed by district and
// state so they read the same district when a name is shared across states.
type DashboardRepository interface {
	Summary(ctx context.Context, district, state string) (models.SummaryStats, error)
	Series(ctx context.Context, district, state string) ([]models.MonthlyPoint, error)
}

// DashboardAggregator loads the summary and the monthly series of a district concurrently
// and returns them together or not at all.
type DashboardAggregator struct {
	repo    DashboardRepository
	dedupe  bool
	timeout time.Duration
	group   singleflight.Group
	now     func() time.Time
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// AggregatorOption configures a DashboardAggregator.
type AggregatorOption func(*DashboardAggregator)

// WithDedupe makes concurrent fetches of the same district share one in-flight retrieval.
func WithDedupe(enabled bool) AggregatorOption {
	return func(a *DashboardAggregator) { a.dedupe = enabled }
}

// WithSharedTimeout bounds a de-duplicated fetch, which outlives any single caller's context.
func WithSharedTimeout(d time.Duration) AggregatorOption {
	return func(a *DashboardAggregator) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithClock sets the clock used for FetchedAt.
func WithClock(now func() time.Time) AggregatorOption {
	return func(a *DashboardAggregator) { a.now = now }
}

// WithAggregatorMetrics records fetch outcomes and leg latencies on m.
func WithAggregatorMetrics(m *metrics.Metrics) AggregatorOption {
	return func(a *DashboardAggregator) { a.metrics = m }
}

// WithAggregatorLogger replaces the global logger.
func WithAggregatorLogger(l zerolog.Logger) AggregatorOption {
	return func(a *DashboardAggregator) { a.logger = l }
}

// NewDashboardAggregator creates a new dashboard aggregator
func NewDashboardAggregator(repo DashboardRepository, opts ...AggregatorOption) *DashboardAggregator {
	a := &DashboardAggregator{
		repo:    repo,
		timeout: DefaultDashboardTimeout,
		now:     time.Now,
		logger:  log.Logger,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Fetch returns a snapshot for district. Both retrievals use the same district and state verbatim.
func (a *DashboardAggregator) Fetch(ctx context.Context, district models.CanonicalDistrict) (*models.DashboardSnapshot, error) {
	if strings.TrimSpace(district.District) == "" {
		return nil, apperror.New(apperror.KindInvalidInput, "dashboard", errors.New("district key is empty"))
	}
	if !a.dedupe {
		return a.fetch(ctx, district)
	}

	key := district.State + "\x00" + district.District
	ch := a.group.DoChan(key, func() (any, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
		defer cancel()
		return a.fetch(shared, district)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return cloneSnapshot(res.Val.(*models.DashboardSnapshot)), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("service: dashboard %q: %w", district.District, ctx.Err())
	}
}

func (a *DashboardAggregator) fetch(ctx context.Context, district models.CanonicalDistrict) (*models.DashboardSnapshot, error) {
	ctx, span := tracer.Start(ctx, "DashboardAggregator.Fetch", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()
	span.SetAttributes(
		attribute.String("district", district.District),
		attribute.String("state", district.State),
	)

	// The first failing leg cancels gctx, which stops its sibling.
	g, gctx := errgroup.WithContext(ctx)

	var (
		summary    models.SummaryStats
		series     []models.MonthlyPoint
		summaryErr error
		seriesErr  error
	)

	g.Go(func() error {
		start := time.Now()
		s, err := a.repo.Summary(gctx, district.District, district.State)
		a.metrics.ObserveLeg("summary", time.Since(start))
		if err == nil {
			if verr := s.Validate(); verr != nil {
				err = fmt.Errorf("invalid summary payload: %w", verr)
			}
		}
		if err != nil {
			summaryErr = err
			return err
		}
		summary = s
		return nil
	})

	g.Go(func() error {
		start := time.Now()
		s, err := a.repo.Series(gctx, district.District, district.State)
		a.metrics.ObserveLeg("series", time.Since(start))
		if err == nil {
			if verr := models.ValidateSeries(s); verr != nil {
				err = fmt.Errorf("invalid series payload: %w", verr)
			}
		}
		if err != nil {
			seriesErr = err
			return err
		}
		series = s
		return nil
	})

	_ = g.Wait()

	if err := attributeFailure(ctx, district, summaryErr, seriesErr); err != nil {
		a.metrics.IncDashboardFetch(outcomeLabel(err))
		a.logger.Warn().Err(err).Str("district", district.District).Msg("dashboard fetch failed")
		span.RecordError(err)
		span.SetStatus(codes.Error, string(apperror.KindOf(err)))
		return nil, err
	}

	if series == nil {
		series = []models.MonthlyPoint{}
	}
	a.metrics.IncDashboardFetch("ok")
	return &models.DashboardSnapshot{
		District:  district,
		Summary:   summary,
		Series:    series,
		FetchedAt: a.now(),
	}, nil
}

// attributeFailure names the leg that failed. A leg that only saw the cancellation triggered by its
// sibling's failure did not fail on its own.
func attributeFailure(ctx context.Context, district models.CanonicalDistrict, summaryErr, seriesErr error) error {
	if summaryErr == nil && seriesErr == nil {
		return nil
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("service: dashboard %q: %w", district.District, ctx.Err())
	}
	if ctx.Err() == nil && summaryErr != nil && seriesErr != nil {
		switch {
		case errors.Is(summaryErr, context.Canceled) && !errors.Is(seriesErr, context.Canceled):
			summaryErr = nil
		case errors.Is(seriesErr, context.Canceled) && !errors.Is(summaryErr, context.Canceled):
			seriesErr = nil
		}
	}

	op := fmt.Sprintf("dashboard %q", district.District)
	switch {
	case summaryErr != nil && seriesErr != nil:
		return apperror.New(apperror.KindBothFetchesFailed, op, errors.Join(
			apperror.New(apperror.KindSummaryFetchFailed, "summary", summaryErr),
			apperror.New(apperror.KindSeriesFetchFailed, "series", seriesErr),
		))
	case summaryErr != nil:
		return apperror.New(apperror.KindSummaryFetchFailed, op, summaryErr)
	default:
		return apperror.New(apperror.KindSeriesFetchFailed, op, seriesErr)
	}
}

func outcomeLabel(err error) string {
	if k := apperror.KindOf(err); k != apperror.KindUnknown {
		return string(k)
	}
	return "canceled"
}

func cloneSnapshot(s *models.DashboardSnapshot) *models.DashboardSnapshot {
	out := *s
	out.Series = append([]models.MonthlyPoint(nil), s.Series...)
	if out.Series == nil {
		out.Series = []models.MonthlyPoint{}
	}
	return &out
}
