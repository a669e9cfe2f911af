// Package snapshot writes the triggering frame of a sighting to disk as a
// JPEG, with a stable latest.jpg pointer and an optional thumbnail for quick
// review.
package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"

	"lookout/internal/fileutil"
	"lookout/internal/frame"
	"lookout/internal/services"
)

const (
	latestName   = "latest.jpg"
	jpegQuality  = 85
	timestampFmt = "20060102-150405.000"
)

// Writer persists sighting snapshots under a directory.
type Writer struct {
	dir            string
	thumbnailWidth int
}

// NewWriter builds a writer rooted at dir. A thumbnail width of zero disables
// thumbnails.
func NewWriter(dir string, thumbnailWidth int) *Writer {
	return &Writer{dir: dir, thumbnailWidth: thumbnailWidth}
}

// Save writes the frame as a timestamped JPEG, refreshes latest.jpg, and
// writes a thumbnail alongside. Returns the snapshot path.
func (w *Writer) Save(f *frame.Frame, detectedAt time.Time) (string, error) {
	if f == nil || f.Gray == nil {
		return "", services.Wrap(services.ErrValidation, "snapshot", "save", "no frame to save", nil)
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", services.Wrap(services.ErrTransient, "snapshot", "save", "create snapshot directory", err)
	}

	var src = imaging.Clone(f.Gray)
	if f.Color != nil {
		src = imaging.Clone(f.Color)
	}

	name := fmt.Sprintf("sighting-%s.jpg", detectedAt.UTC().Format(timestampFmt))
	path := filepath.Join(w.dir, name)
	if err := imaging.Save(src, path, imaging.JPEGQuality(jpegQuality)); err != nil {
		return "", services.Wrap(services.ErrTransient, "snapshot", "save", "encode jpeg", err)
	}

	if err := fileutil.CopyFile(path, filepath.Join(w.dir, latestName)); err != nil {
		return "", services.Wrap(services.ErrTransient, "snapshot", "save", "update latest pointer", err)
	}

	if w.thumbnailWidth > 0 && src.Bounds().Dx() > w.thumbnailWidth {
		thumb := imaging.Resize(src, w.thumbnailWidth, 0, imaging.Linear)
		thumbPath := thumbnailPath(path)
		if err := imaging.Save(thumb, thumbPath, imaging.JPEGQuality(jpegQuality)); err != nil {
			return "", services.Wrap(services.ErrTransient, "snapshot", "save", "encode thumbnail", err)
		}
	}
	return path, nil
}

func thumbnailPath(snapshotPath string) string {
	ext := filepath.Ext(snapshotPath)
	return snapshotPath[:len(snapshotPath)-len(ext)] + ".thumb" + ext
}
