package capture

import (
	"context"

	"lookout/internal/frame"
)

// StubSource replays a fixed sequence of frames and then reports end of
// stream. Backs tests and the dry-run camera check.
type StubSource struct {
	frames []*frame.Frame
	next   int
	closed bool
}

// NewStub builds a source over the given frames.
func NewStub(frames ...*frame.Frame) *StubSource {
	return &StubSource{frames: frames}
}

// NextFrame returns the next queued frame or ErrEndOfStream.
func (s *StubSource) NextFrame(ctx context.Context) (*frame.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.closed || s.next >= len(s.frames) {
		return nil, ErrEndOfStream
	}
	f := s.frames[s.next]
	s.next++
	return f, nil
}

// Close marks the source exhausted.
func (s *StubSource) Close() error {
	s.closed = true
	return nil
}
