package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer lets the spinner goroutine and the test share a buffer.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerShowsCurrentStage(t *testing.T) {
	var out syncBuffer
	s := newSpinner(context.Background(), &out, true)
	s.stage("Interpreting %s", "layout.txt")
	s.start()
	time.Sleep(200 * time.Millisecond)
	s.stage("Rendering %s", "svg")
	time.Sleep(200 * time.Millisecond)
	s.stop()

	got := out.String()
	for _, want := range []string{"Interpreting layout.txt...", "Rendering svg..."} {
		if !strings.Contains(got, want) {
			t.Errorf("spinner output missing %q:\n%q", want, got)
		}
	}
	if stages := s.stages(); len(stages) != 2 || stages[1] != "Rendering svg" {
		t.Errorf("stages() = %v", stages)
	}
}

func TestSpinnerDisabledStaysQuiet(t *testing.T) {
	var out syncBuffer
	s := newSpinner(context.Background(), &out, false)
	s.start()
	s.stage("Rendering dot")
	time.Sleep(100 * time.Millisecond)
	s.succeed("Rendered <inline>")
	s.fail(errors.New("boom"))

	if got := out.String(); got != "" {
		t.Errorf("disabled spinner wrote %q", got)
	}
	if stages := s.stages(); len(stages) != 1 {
		t.Errorf("disabled spinner should still record stages, got %v", stages)
	}
}

func TestSpinnerCancelledWithCommand(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(ctx, &syncBuffer{}, true)
	s.stage("Interpreting layout.txt")
	s.start()

	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.cancelled() {
		t.Error("spinner should report cancellation of the command context")
	}
	s.stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner(context.Background(), &syncBuffer{}, true)
	s.start()
	s.stop()
	s.stop()
	if s.cancelled() {
		t.Error("stop should not count as cancellation")
	}

	unstarted := newSpinner(context.Background(), &syncBuffer{}, true)
	unstarted.stop()
	unstarted.stop()
}

func TestSpinnerFailNamesStage(t *testing.T) {
	var out bytes.Buffer
	prev := uiOut
	uiOut = &out
	t.Cleanup(func() { uiOut = prev })

	s := newSpinner(context.Background(), &syncBuffer{}, true)
	s.stage("Rendering svg")
	s.start()
	s.fail(errors.New("graphviz unavailable"))

	if got := out.String(); !strings.Contains(got, "Rendering svg failed: graphviz unavailable") {
		t.Errorf("fail output = %q", got)
	}
}
