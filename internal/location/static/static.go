// Package static provides a fixed-coordinate location provider for kiosk
// deployments and tests.
package static

import (
	"context"
	"time"

	"github.com/prasetyadi/absensi/internal/domain"
	"github.com/prasetyadi/absensi/internal/geo"
	"github.com/prasetyadi/absensi/internal/location"
)

type Provider struct {
	point geo.Point
	now   func() time.Time
}

func NewProvider(point geo.Point) *Provider {
	return &Provider{point: point, now: time.Now}
}

func (p *Provider) Current(_ context.Context, _ location.Options) (domain.GeoPosition, error) {
	return domain.GeoPosition{
		Latitude:  p.point.Latitude,
		Longitude: p.point.Longitude,
		SampledAt: p.now(),
	}, nil
}
