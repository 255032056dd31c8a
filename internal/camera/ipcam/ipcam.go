// Package ipcam implements the camera capability against an IP camera or
// phone webcam app exposing an HTTP still-frame endpoint.
package ipcam

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/prasetyadi/absensi/internal/camera"
)

type Provider struct {
	snapshotURL string
	client      *http.Client
}

// NewProvider points at a snapshot endpoint returning one encoded image
// per GET, e.g. "http://192.168.1.20:8080/shot.jpg".
func NewProvider(snapshotURL string) *Provider {
	return &Provider{
		snapshotURL: snapshotURL,
		client:      &http.Client{},
	}
}

// Open probes the endpoint once so acquisition errors (no device, denied)
// surface before the flow reports the camera as open.
func (p *Provider) Open(ctx context.Context) (camera.Stream, error) {
	s := &stream{provider: p}
	if _, err := s.Frame(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

type stream struct {
	provider *Provider

	mu      sync.Mutex
	stopped bool
}

func (s *stream) Frame(ctx context.Context) (image.Image, error) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil, fmt.Errorf("camera stream is stopped")
	}
	s.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.provider.snapshotURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.provider.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", camera.ErrNoDevice, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("%w: camera returned status %d", camera.ErrPermissionDenied, resp.StatusCode)
	default:
		return nil, fmt.Errorf("%w: camera returned status %d", camera.ErrNoDevice, resp.StatusCode)
	}

	img, err := imaging.Decode(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame: %w", err)
	}
	return img, nil
}

// Stop marks the stream released and drops idle connections to the
// camera. Safe to call more than once.
func (s *stream) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	s.provider.client.CloseIdleConnections()
}
