// Package apperror defines the failure kinds surfaced by location resolution and dashboard loading.
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can tell "could not determine your location"
// from "could not load your district's statistics".
type Kind string

const (
	KindUnknown Kind = ""

	KindInvalidInput Kind = "invalid_input"

	// Coordinate acquisition, passed through from the device collaborator.
	KindDeviceUnavailable   Kind = "device_unavailable"
	KindPermissionDenied    Kind = "permission_denied"
	KindPositionUnavailable Kind = "position_unavailable"

	// Reverse geocoding.
	KindProviderUnreachable Kind = "provider_unreachable"
	KindProviderError       Kind = "provider_error"
	KindNoAddressData       Kind = "no_address_data"
	KindTimeout             Kind = "timeout"

	// Dashboard loading.
	KindSummaryFetchFailed Kind = "summary_fetch_failed"
	KindSeriesFetchFailed  Kind = "series_fetch_failed"
	KindBothFetchesFailed  Kind = "both_fetches_failed"
)

var messages = map[Kind]string{
	KindInvalidInput:        "invalid input",
	KindDeviceUnavailable:   "location device unavailable",
	KindPermissionDenied:    "location permission denied",
	KindPositionUnavailable: "position unavailable",
	KindProviderUnreachable: "geocoding provider unreachable",
	KindProviderError:       "geocoding provider error",
	KindNoAddressData:       "no address data for coordinate",
	KindTimeout:             "timeout",
	KindSummaryFetchFailed:  "summary fetch failed",
	KindSeriesFetchFailed:   "series fetch failed",
	KindBothFetchesFailed:   "summary and series fetches failed",
}

func (k Kind) String() string {
	if m, ok := messages[k]; ok {
		return m
	}
	return "unknown error"
}

// Sentinels for errors.Is. They match any *Error of the same Kind.
var (
	ErrInvalidInput        = &Error{Kind: KindInvalidInput}
	ErrDeviceUnavailable   = &Error{Kind: KindDeviceUnavailable}
	ErrPermissionDenied    = &Error{Kind: KindPermissionDenied}
	ErrPositionUnavailable = &Error{Kind: KindPositionUnavailable}
	ErrProviderUnreachable = &Error{Kind: KindProviderUnreachable}
	ErrProviderError       = &Error{Kind: KindProviderError}
	ErrNoAddressData       = &Error{Kind: KindNoAddressData}
	ErrTimeout             = &Error{Kind: KindTimeout}
	ErrSummaryFetchFailed  = &Error{Kind: KindSummaryFetchFailed}
	ErrSeriesFetchFailed   = &Error{Kind: KindSeriesFetchFailed}
	ErrBothFetchesFailed   = &Error{Kind: KindBothFetchesFailed}
)

// Error is a classified failure. Op names the stage that produced it and Status carries
// the upstream HTTP status when there is one.
type Error struct {
	Kind   Kind
	Op     string
	Status int
	Err    error
}

// New builds a classified error for op wrapping err.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// WithStatus builds a classified error carrying an upstream status code.
func WithStatus(kind Kind, op string, status int, err error) *Error {
	return &Error{Kind: kind, Op: op, Status: status, Err: err}
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the Kind of the outermost *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// StatusOf returns the upstream status carried by err, or 0.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}
