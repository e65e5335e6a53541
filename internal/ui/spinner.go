package ui

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Spinner provides an animated progress indicator while external tools run.
// A disabled spinner ignores every call.
type Spinner struct {
	out      io.Writer
	frames   []string
	interval time.Duration
	message  string
	enabled  bool
	stop     chan struct{}
	done     chan struct{}
	mu       sync.Mutex
	running  bool
}

// SpinnerFrames defines the animation styles
var SpinnerFrames = struct {
	Dots []string
	Line []string
}{
	Dots: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	Line: []string{"-", "\\", "|", "/"},
}

// NewSpinner creates a spinner drawing to out.
func NewSpinner(out io.Writer, enabled bool) *Spinner {
	return &Spinner{
		out:      out,
		frames:   SpinnerFrames.Dots,
		interval: 80 * time.Millisecond,
		enabled:  enabled,
	}
}

// Start begins the spinner animation with the given message
func (s *Spinner) Start(message string) {
	s.mu.Lock()
	if !s.enabled || s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.message = message
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		i := 0
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.draw(i)
		for {
			select {
			case <-s.stop:
				fmt.Fprint(s.out, "\r\033[K")
				close(s.done)
				return
			case <-ticker.C:
				i = (i + 1) % len(s.frames)
				s.draw(i)
			}
		}
	}()
}

func (s *Spinner) draw(i int) {
	s.mu.Lock()
	msg := s.message
	s.mu.Unlock()
	fmt.Fprintf(s.out, "\r%s %s", SpinnerStyle.Render(s.frames[i]), msg)
}

// Stop halts the spinner animation and clears its line
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stop)
	<-s.done
}

// UpdateMessage changes the spinner message while running
func (s *Spinner) UpdateMessage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// IsRunning returns whether the spinner is currently active
func (s *Spinner) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
