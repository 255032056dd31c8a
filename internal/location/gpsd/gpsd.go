// Package gpsd reads position fixes from a local gpsd daemon over its
// JSON TCP protocol.
package gpsd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/prasetyadi/absensi/internal/domain"
	"github.com/prasetyadi/absensi/internal/location"
)

const watchCommand = `?WATCH={"enable":true,"json":true}` + "\n"

type Provider struct {
	addr   string
	dialer net.Dialer
}

// NewProvider talks to gpsd at addr, e.g. "localhost:2947".
func NewProvider(addr string) *Provider {
	return &Provider{addr: addr}
}

// tpv is the subset of gpsd's TPV report the provider needs. Mode 2 is a
// 2D fix, mode 3 a 3D fix.
type tpv struct {
	Class string  `json:"class"`
	Mode  int     `json:"mode"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Time  string  `json:"time"`
}

// Current dials gpsd, enables watch mode, and waits for the first usable
// TPV report. Opts.MaximumAge of zero rejects reports older than the call,
// so a fresh fix is always requested from the daemon.
func (p *Provider) Current(ctx context.Context, opts location.Options) (domain.GeoPosition, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = location.DefaultOptions().Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, err := p.dialer.DialContext(ctx, "tcp", p.addr)
	if err != nil {
		return domain.GeoPosition{}, fmt.Errorf("%w: dial gpsd %s: %v", location.ErrUnavailable, p.addr, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return domain.GeoPosition{}, fmt.Errorf("failed to set deadline: %w", err)
		}
	}

	if _, err := conn.Write([]byte(watchCommand)); err != nil {
		return domain.GeoPosition{}, fmt.Errorf("%w: enable watch: %v", location.ErrUnavailable, err)
	}

	requestedAt := time.Now()
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 64*1024), 64*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var report tpv
		if err := json.Unmarshal([]byte(line), &report); err != nil {
			continue
		}
		if report.Class != "TPV" || report.Mode < 2 {
			continue
		}

		sampledAt := requestedAt
		if t, err := time.Parse(time.RFC3339, report.Time); err == nil {
			sampledAt = t
			if opts.MaximumAge >= 0 && requestedAt.Sub(t) > opts.MaximumAge+2*time.Second {
				// Stale report from before the watch was enabled.
				continue
			}
		}

		return domain.GeoPosition{
			Latitude:  report.Lat,
			Longitude: report.Lon,
			SampledAt: sampledAt,
		}, nil
	}

	if err := scanner.Err(); err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return domain.GeoPosition{}, fmt.Errorf("%w: no fix within %s", location.ErrTimeout, timeout)
		}
		return domain.GeoPosition{}, fmt.Errorf("%w: read gpsd: %v", location.ErrUnavailable, err)
	}
	return domain.GeoPosition{}, fmt.Errorf("%w: gpsd closed the stream", location.ErrUnavailable)
}
