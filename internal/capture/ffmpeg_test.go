package capture

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
)

type fakeStarter struct {
	args   []string
	stream io.ReadCloser
	err    error
}

func (f *fakeStarter) Start(_ context.Context, _ string, args []string) (io.ReadCloser, error) {
	f.args = args
	if f.err != nil {
		return nil, f.err
	}
	return f.stream, nil
}

// rawFrames builds n rgb24 frames of the given size filled with the value v.
func rawFrames(n, width, height int, v byte) io.ReadCloser {
	frame := bytes.Repeat([]byte{v}, width*height*3)
	return io.NopCloser(bytes.NewReader(bytes.Repeat(frame, n)))
}

func TestFFmpegSourceReadsFrames(t *testing.T) {
	starter := &fakeStarter{stream: rawFrames(2, 4, 3, 200)}
	src, err := OpenFFmpeg("ffmpeg", "/dev/video0", 4, 3, 15, WithStarter(starter))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer src.Close()

	ctx := context.Background()
	first, err := src.NextFrame(ctx)
	if err != nil {
		t.Fatalf("first frame: %v", err)
	}
	if first.Sequence != 1 {
		t.Fatalf("expected sequence 1, got %d", first.Sequence)
	}
	if b := first.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Fatalf("unexpected bounds %v", b)
	}
	if first.Gray.Pix[0] != 200 {
		t.Fatalf("expected gray 200 for uniform rgb 200, got %d", first.Gray.Pix[0])
	}
	if first.Color == nil || first.Color.Pix[3] != 255 {
		t.Fatal("expected opaque color frame")
	}

	second, err := src.NextFrame(ctx)
	if err != nil {
		t.Fatalf("second frame: %v", err)
	}
	if second.Sequence != 2 {
		t.Fatalf("expected sequence 2, got %d", second.Sequence)
	}

	if _, err := src.NextFrame(ctx); !errors.Is(err, ErrEndOfStream) {
		t.Fatalf("expected end of stream, got %v", err)
	}
}

func TestFFmpegSourceArgs(t *testing.T) {
	starter := &fakeStarter{stream: rawFrames(1, 2, 2, 0)}
	src, err := OpenFFmpeg("ffmpeg", "/dev/video3", 2, 2, 10, WithStarter(starter))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := src.NextFrame(context.Background()); err != nil {
		t.Fatalf("next frame: %v", err)
	}

	joined := ""
	for _, a := range starter.args {
		joined += a + " "
	}
	for _, want := range []string{"-f v4l2", "-video_size 2x2", "-framerate 10", "-i /dev/video3", "-pix_fmt rgb24"} {
		if !bytes.Contains([]byte(joined), []byte(want)) {
			t.Fatalf("args missing %q: %s", want, joined)
		}
	}
}

func TestFFmpegSourceStartFailure(t *testing.T) {
	starter := &fakeStarter{err: errors.New("no such device")}
	src, err := OpenFFmpeg("ffmpeg", "/dev/video0", 2, 2, 10, WithStarter(starter))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := src.NextFrame(context.Background()); err == nil {
		t.Fatal("expected error when ffmpeg cannot start")
	}
}

func TestStubSource(t *testing.T) {
	src := NewStub(nil, nil)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := src.NextFrame(ctx); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
	}
	if _, err := src.NextFrame(ctx); !errors.Is(err, ErrEndOfStream) {
		t.Fatalf("expected end of stream, got %v", err)
	}
}
