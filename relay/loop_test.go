package relay

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mickamy/weechat-tui/wire"
)

var fakeUnknownFrame = wire.Frame{ID: "some_unhandled_id"}

func TestRunReturnsContextError(t *testing.T) {
	t.Parallel()
	s := testSession()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}

func TestRunPropagatesFrameReadError(t *testing.T) {
	t.Parallel()
	frames := make(chan frameOrErr, 1)
	s := newSession(nil, frames)
	wantErr := errors.New("boom")
	frames <- frameOrErr{err: wantErr}

	err := s.Run(context.Background())
	if !errors.Is(err, wantErr) {
		t.Fatalf("got %v, want %v", err, wantErr)
	}
}

func TestRunDrainsMultipleQueuedFramesInOneTurn(t *testing.T) {
	t.Parallel()
	frames := make(chan frameOrErr, 4)
	s := newSession(nil, frames)

	// Two benign gui_buffers-free frames (unknown id -> no-op) queued before Run.
	for i := 0; i < 2; i++ {
		frames <- frameOrErr{frame: &fakeUnknownFrame}
	}

	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return promptly")
	}

	if len(frames) != 0 {
		t.Fatalf("expected both queued frames drained in one turn, %d left", len(frames))
	}
}
