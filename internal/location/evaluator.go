package location

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prasetyadi/absensi/internal/appstate"
	"github.com/prasetyadi/absensi/internal/domain"
	"github.com/prasetyadi/absensi/internal/geo"
)

// DefaultMaxDistance is the geofence radius in meters. Tunable per
// deployment through EvaluatorConfig.
const DefaultMaxDistance = 100

// DefaultInterval is how often the evaluator re-samples the device location.
const DefaultInterval = 10 * time.Second

// alertSink is the subset of appstate.Store the evaluator needs.
type alertSink interface {
	SetAlert(appstate.Alert)
}

type EvaluatorConfig struct {
	// Target is the store coordinate.
	Target geo.Point
	// MaxDistance is the geofence radius in meters; 0 means DefaultMaxDistance.
	MaxDistance float64
	// Interval between samples; 0 means DefaultInterval.
	Interval time.Duration
	// Options for each position query; zero value means DefaultOptions.
	Options Options
}

// Evaluator periodically samples the device location and keeps a boolean
// "within range" of the store coordinate. On a provider error the last
// known value is retained and the error is surfaced through the alert sink.
type Evaluator struct {
	provider Provider
	cfg      EvaluatorConfig
	alerts   alertSink
	logger   *slog.Logger

	mu          sync.Mutex
	withinRange bool
	haveFix     bool
	distance    float64
	lastPos     domain.GeoPosition
	lastErr     error
}

func NewEvaluator(provider Provider, cfg EvaluatorConfig, alerts alertSink, logger *slog.Logger) *Evaluator {
	if cfg.MaxDistance <= 0 {
		cfg.MaxDistance = DefaultMaxDistance
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Options == (Options{}) {
		cfg.Options = DefaultOptions()
	}
	return &Evaluator{
		provider: provider,
		cfg:      cfg,
		alerts:   alerts,
		logger:   logger,
	}
}

// Run samples once immediately, then on every interval tick until ctx is
// cancelled. It blocks; run it in its own goroutine.
func (e *Evaluator) Run(ctx context.Context) {
	e.Sample(ctx)

	ticker := time.NewTicker(e.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.Sample(ctx)
		}
	}
}

// Sample performs one position query and recomputes the range state.
func (e *Evaluator) Sample(ctx context.Context) {
	pos, err := e.provider.Current(ctx, e.cfg.Options)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		e.mu.Lock()
		e.lastErr = err
		e.mu.Unlock()

		e.logger.Warn("location sample failed", "error", err)
		e.alerts.SetAlert(appstate.Alert{
			Message: "Error getting location. Please enable location services.",
			Kind:    appstate.AlertError,
		})
		return
	}

	d := geo.Haversine(e.cfg.Target, geo.Point{Latitude: pos.Latitude, Longitude: pos.Longitude})

	e.mu.Lock()
	e.lastPos = pos
	e.distance = d
	e.withinRange = d <= e.cfg.MaxDistance
	e.haveFix = true
	e.lastErr = nil
	e.mu.Unlock()

	e.logger.Debug("location sampled",
		"lat", pos.Latitude, "lon", pos.Longitude,
		"distance_m", d, "within_range", d <= e.cfg.MaxDistance)
}

// WithinRange reports the last computed range state. Before the first
// successful fix it is false.
func (e *Evaluator) WithinRange() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.withinRange
}

// Distance returns the last computed distance in meters and whether a fix
// has been obtained at all.
func (e *Evaluator) Distance() (float64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.distance, e.haveFix
}

// LastPosition returns the most recent successful sample.
func (e *Evaluator) LastPosition() (domain.GeoPosition, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastPos, e.haveFix
}

// LastError returns the error from the most recent sample, nil if it
// succeeded.
func (e *Evaluator) LastError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// MaxDistance returns the configured geofence radius in meters.
func (e *Evaluator) MaxDistance() float64 {
	return e.cfg.MaxDistance
}
