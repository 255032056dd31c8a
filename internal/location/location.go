// Package location abstracts the device geolocation capability and hosts
// the geofence evaluator that gates attendance actions.
package location

import (
	"context"
	"errors"
	"time"

	"github.com/prasetyadi/absensi/internal/domain"
)

// Provider error kinds. Providers should wrap one of these so callers can
// tell a denied permission from a flaky fix.
var (
	ErrPermissionDenied = errors.New("location permission denied")
	ErrUnavailable      = errors.New("position unavailable")
	ErrTimeout          = errors.New("location request timed out")
	ErrUnsupported      = errors.New("geolocation is not supported on this device")
)

// Options mirror the one-shot position query knobs of the device API.
type Options struct {
	HighAccuracy bool
	Timeout      time.Duration
	// MaximumAge is the oldest acceptable cached fix. Zero rejects all
	// cached fixes.
	MaximumAge time.Duration
}

func DefaultOptions() Options {
	return Options{
		HighAccuracy: true,
		Timeout:      5 * time.Second,
		MaximumAge:   0,
	}
}

// Provider is the device geolocation capability.
type Provider interface {
	Current(ctx context.Context, opts Options) (domain.GeoPosition, error)
}
