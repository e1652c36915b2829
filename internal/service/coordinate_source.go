package service

import (
	"context"
	"errors"
	"fmt"

	"mgnrega-api/internal/apperror"
	"mgnrega-api/internal/models"
)

// Device error codes reported by browser geolocation.
const (
	DeviceErrUnsupported         = "unsupported"
	DeviceErrPermissionDenied    = "permission_denied"
	DeviceErrPositionUnavailable = "position_unavailable"
	DeviceErrTimeout             = "timeout"
)

// ReportedPosition is a CoordinateSource over what a client sent: either a position
// or the error its device produced while acquiring one.
type ReportedPosition struct {
	Latitude    *float64
	Longitude   *float64
	DeviceError string
}

// Coordinate implements CoordinateSource.
func (p ReportedPosition) Coordinate(_ context.Context) (models.Coordinate, error) {
	const op = "device"

	switch p.DeviceError {
	case "":
	case DeviceErrUnsupported:
		return models.Coordinate{}, apperror.New(apperror.KindDeviceUnavailable, op, errors.New("geolocation is not supported"))
	case DeviceErrPermissionDenied:
		return models.Coordinate{}, apperror.New(apperror.KindPermissionDenied, op, nil)
	case DeviceErrPositionUnavailable:
		return models.Coordinate{}, apperror.New(apperror.KindPositionUnavailable, op, nil)
	case DeviceErrTimeout:
		return models.Coordinate{}, apperror.New(apperror.KindPositionUnavailable, op, errors.New("device timed out acquiring a position"))
	default:
		return models.Coordinate{}, apperror.New(apperror.KindDeviceUnavailable, op, fmt.Errorf("device error %q", p.DeviceError))
	}

	if p.Latitude == nil || p.Longitude == nil {
		return models.Coordinate{}, apperror.New(apperror.KindInvalidInput, op, errors.New("latitude and longitude are required"))
	}
	return models.Coordinate{Latitude: *p.Latitude, Longitude: *p.Longitude}, nil
}
