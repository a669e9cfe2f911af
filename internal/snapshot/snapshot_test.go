package snapshot

import (
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"

	"lookout/internal/frame"
)

func TestSaveWritesSnapshotLatestAndThumbnail(t *testing.T) {
	dir := t.TempDir()
	writer := NewWriter(dir, 32)

	f := &frame.Frame{
		Gray:  image.NewGray(image.Rect(0, 0, 64, 48)),
		Color: image.NewRGBA(image.Rect(0, 0, 64, 48)),
	}
	detected := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

	path, err := writer.Save(f, detected)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Fatalf("snapshot written outside dir: %s", path)
	}

	for _, file := range []string{path, filepath.Join(dir, "latest.jpg"), thumbnailPath(path)} {
		if _, err := os.Stat(file); err != nil {
			t.Fatalf("expected %s to exist: %v", file, err)
		}
	}

	thumb, err := imaging.Open(thumbnailPath(path))
	if err != nil {
		t.Fatalf("open thumbnail: %v", err)
	}
	if thumb.Bounds().Dx() != 32 {
		t.Fatalf("expected 32px thumbnail, got %d", thumb.Bounds().Dx())
	}
}

func TestSaveSkipsThumbnailWhenDisabled(t *testing.T) {
	dir := t.TempDir()
	writer := NewWriter(dir, 0)

	f := &frame.Frame{Gray: image.NewGray(image.Rect(0, 0, 64, 48))}
	path, err := writer.Save(f, time.Now())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(thumbnailPath(path)); !os.IsNotExist(err) {
		t.Fatalf("thumbnail must not be written when disabled: %v", err)
	}
}

func TestSaveRejectsNilFrame(t *testing.T) {
	writer := NewWriter(t.TempDir(), 0)
	if _, err := writer.Save(nil, time.Now()); err == nil {
		t.Fatal("expected error for nil frame")
	}
}
