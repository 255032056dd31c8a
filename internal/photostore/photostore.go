package photostore

import (
	"context"
	"fmt"
	"path"
	"time"
)

// DefaultFolder is the object-storage prefix for attendance photos.
const DefaultFolder = "sistem-absensi"

// PhotoStore uploads an attendance photo to remote object storage and
// resolves its download URL. Submission must not proceed until the URL is
// resolved.
type PhotoStore interface {
	Upload(ctx context.Context, name, contentType string, data []byte) (url string, err error)
}

// ObjectName builds the storage object name for a photo captured at the
// given time: <folder>/attendance-photo-<epochMillis>.jpg.
func ObjectName(folder string, capturedAt time.Time) string {
	if folder == "" {
		folder = DefaultFolder
	}
	return path.Join(folder, fmt.Sprintf("attendance-photo-%d.jpg", capturedAt.UnixMilli()))
}
