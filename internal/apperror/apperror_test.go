package apperror

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Is(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{
			name:   "same kind",
			err:    New(KindTimeout, "geocode", context.DeadlineExceeded),
			target: ErrTimeout,
			want:   true,
		},
		{
			name:   "wrapped by fmt",
			err:    fmt.Errorf("service: resolve: %w", New(KindNoAddressData, "geocode", nil)),
			target: ErrNoAddressData,
			want:   true,
		},
		{
			name:   "different kind",
			err:    New(KindProviderError, "geocode", nil),
			target: ErrProviderUnreachable,
			want:   false,
		},
		{
			name:   "cause still reachable",
			err:    New(KindTimeout, "geocode", context.DeadlineExceeded),
			target: context.DeadlineExceeded,
			want:   true,
		},
		{
			name:   "plain error",
			err:    errors.New("boom"),
			target: ErrTimeout,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.Is(tt.err, tt.target))
		})
	}
}

func TestError_Message(t *testing.T) {
	err := WithStatus(KindProviderError, "geocode", 503, errors.New("Service Unavailable"))
	assert.Equal(t, "geocode: geocoding provider error (status 503): Service Unavailable", err.Error())

	assert.Equal(t, "timeout", (&Error{Kind: KindTimeout}).Error())
}

func TestKindOfAndStatusOf(t *testing.T) {
	err := fmt.Errorf("handler: %w", WithStatus(KindProviderError, "geocode", 429, nil))

	assert.Equal(t, KindProviderError, KindOf(err))
	assert.Equal(t, 429, StatusOf(err))
	assert.Equal(t, KindUnknown, KindOf(errors.New("x")))
	assert.Equal(t, 0, StatusOf(errors.New("x")))
}

func TestBothFetchesFailedKeepsLegs(t *testing.T) {
	summary := New(KindSummaryFetchFailed, "summary", errors.New("502"))
	series := New(KindSeriesFetchFailed, "series", errors.New("reset"))
	err := New(KindBothFetchesFailed, "aggregator", errors.Join(summary, series))

	assert.Equal(t, KindBothFetchesFailed, KindOf(err))
	assert.ErrorIs(t, err, ErrSummaryFetchFailed)
	assert.ErrorIs(t, err, ErrSeriesFetchFailed)
}
