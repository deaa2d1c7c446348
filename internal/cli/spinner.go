package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner shows which pipeline stage a command is in. A disabled spinner
// still records stages but draws nothing, so commands streaming an artifact
// to stdout stay clean.
type spinner struct {
	out     io.Writer
	enabled bool
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once

	mu      sync.Mutex
	started bool
	message string
	history []string
}

// newSpinner creates a spinner drawing to out that stops when ctx is
// cancelled.
func newSpinner(ctx context.Context, out io.Writer, enabled bool) *spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &spinner{
		out:     out,
		enabled: enabled,
		parent:  ctx,
		ctx:     spinnerCtx,
		cancel:  cancel,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// start begins the animation.
func (s *spinner) start() {
	s.mu.Lock()
	if s.started || !s.enabled {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-s.done:
				return
			case <-ticker.C:
				s.mu.Lock()
				frame := spinnerFrames[i%len(spinnerFrames)]
				fmt.Fprintf(s.out, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message+"..."))
				s.mu.Unlock()
			}
		}
	}()
}

// stage switches the spinner to a new pipeline stage, such as
// "Interpreting layout.txt" or "Rendering svg".
func (s *spinner) stage(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = msg
	s.history = append(s.history, msg)
}

// stages returns every stage entered so far, in order.
func (s *spinner) stages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.history...)
}

// stop ends the animation and clears the line. It is safe to call more
// than once.
func (s *spinner) stop() {
	s.once.Do(func() {
		s.cancel()
		close(s.done)
		s.mu.Lock()
		started := s.started
		s.mu.Unlock()
		if started {
			<-s.stopped
			s.clearLine()
		}
	})
}

func (s *spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", len(s.message)+8))
}

// succeed stops the spinner and reports success.
func (s *spinner) succeed(format string, args ...any) {
	s.stop()
	if s.enabled {
		printSuccess(format, args...)
	}
}

// fail stops the spinner and reports the stage that failed.
func (s *spinner) fail(err error) {
	s.stop()
	if !s.enabled {
		return
	}
	s.mu.Lock()
	msg := s.message
	s.mu.Unlock()
	if msg == "" {
		printError("%v", err)
		return
	}
	printError("%s failed: %v", msg, err)
}

// cancelled reports whether the command's context was cancelled.
func (s *spinner) cancelled() bool {
	return s.parent.Err() != nil
}
