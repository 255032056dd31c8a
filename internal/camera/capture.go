package camera

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/disintegration/imaging"

	"github.com/prasetyadi/absensi/internal/domain"
)

// DefaultJPEGQuality for captured frames.
const DefaultJPEGQuality = 85

// Capture grabs the current frame, serializes it to JPEG, and stops the
// stream. The stream is stopped on success so the device is released the
// moment the photo exists; on a frame error the stream stays open and the
// caller decides whether to retry or cancel.
func Capture(ctx context.Context, stream Stream, quality int) (*domain.CapturedPhoto, error) {
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}

	frame, err := stream.Frame(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to grab frame: %w", err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, frame, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}

	stream.Stop()

	return &domain.CapturedPhoto{
		Data:       buf.Bytes(),
		MimeType:   "image/jpeg",
		CapturedAt: time.Now(),
	}, nil
}
