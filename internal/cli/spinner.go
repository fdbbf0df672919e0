package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/matzehuels/typediagram/pkg/observability"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner animates a status line on a terminal. On other writers it stays
// silent so redirected output is not cluttered with control characters.
type spinner struct {
	w       io.Writer
	animate bool
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once
	started atomic.Bool

	mu      sync.Mutex
	message string
	width   int
}

// newSpinner creates a spinner writing to w that stops when ctx is cancelled.
func newSpinner(ctx context.Context, w io.Writer, message string) *spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &spinner{
		w:       w,
		animate: isTerminal(w),
		parent:  ctx,
		ctx:     sctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
		message: message,
	}
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Start begins the animation.
func (s *spinner) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	if !s.animate {
		close(s.stopped)
		return
	}
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

// SetMessage replaces the text shown next to the animation.
func (s *spinner) SetMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
}

// Message returns the current text.
func (s *spinner) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

func (s *spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := fmt.Sprintf("%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
	fmt.Fprintf(s.w, "\r%s", line)
	s.width = max(s.width, len(s.message)+4)
}

func (s *spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	}
}

// Stop ends the animation and clears the line. It may be called repeatedly.
func (s *spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		if s.started.Load() {
			<-s.stopped
		}
	})
}

// Cancelled reports whether the context the spinner was created with ended.
func (s *spinner) Cancelled() bool {
	return s.parent.Err() != nil
}

// =============================================================================
// Stage Reporting
// =============================================================================

// stageHooks shows the running pipeline stage on a spinner and forwards every
// event to the hooks that were registered before.
type stageHooks struct {
	observability.PipelineHooks
	spinner *spinner
}

// watchStages registers stage reporting for s and returns a function that
// restores the previous hooks.
func watchStages(s *spinner) (restore func()) {
	prev := observability.Pipeline()
	observability.SetPipelineHooks(&stageHooks{PipelineHooks: prev, spinner: s})
	return func() { observability.SetPipelineHooks(prev) }
}

func (h *stageHooks) OnLoadStart(ctx context.Context, source string) {
	h.spinner.SetMessage("Loading " + source)
	h.PipelineHooks.OnLoadStart(ctx, source)
}

func (h *stageHooks) OnEmitStart(ctx context.Context, notations []string) {
	h.spinner.SetMessage("Emitting " + strings.Join(notations, ", "))
	h.PipelineHooks.OnEmitStart(ctx, notations)
}

func (h *stageHooks) OnRenderStart(ctx context.Context) {
	h.spinner.SetMessage("Rendering SVG")
	h.PipelineHooks.OnRenderStart(ctx)
}
