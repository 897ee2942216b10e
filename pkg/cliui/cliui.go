// Package cliui provides the terminal rendering used by buddy commands:
// status spinners, chat bubbles and glamour markdown.
package cliui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const (
	spinnerInterval = 80 * time.Millisecond
	markdownWidth   = 80
)

var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

// Spinner animates one status line until Stop is called.
type Spinner struct {
	w       io.Writer
	msg     string
	started time.Time

	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// StartSpinner draws msg behind a braille spinner on w.
func StartSpinner(w io.Writer, msg string) *Spinner {
	s := &Spinner{
		w:       w,
		msg:     msg,
		started: time.Now(),
		done:    make(chan struct{}),
	}

	s.wg.Add(1)
	go s.run()
	return s
}

func (s *Spinner) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for frame := 0; ; frame++ {
		fmt.Fprintf(s.w, "\r  %s %s",
			spinnerStyle.Render(spinnerFrames[frame%len(spinnerFrames)]),
			s.msg,
		)

		select {
		case <-s.done:
			return
		case <-ticker.C:
		}
	}
}

// Stop ends the animation and returns how long the spinner ran. The cursor
// is left on the spinner line. Stop is safe to call more than once.
func (s *Spinner) Stop() time.Duration {
	s.once.Do(func() {
		close(s.done)
	})
	s.wg.Wait()
	return time.Since(s.started)
}

// Clear erases the spinner line. Call it after Stop.
func (s *Spinner) Clear() {
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", lipgloss.Width(s.msg)+4))
}

// Step shows a spinner while fn runs, then replaces it with a ✓ or ✗ and
// the elapsed time.
func Step(w io.Writer, msg string, fn func() error) error {
	s := StartSpinner(w, msg)
	err := fn()
	elapsed := s.Stop()

	fmt.Fprintf(w, "\r  %s %s %s\n",
		Mark(err),
		msg,
		StepStyle.Render(fmt.Sprintf("(%s)", FormatDuration(elapsed))),
	)
	return err
}

// Wait shows a spinner while fn runs and erases it afterwards. Used where
// the result is rendered by the caller, like a chat reply.
func Wait(w io.Writer, msg string, fn func() error) error {
	s := StartSpinner(w, msg)
	err := fn()
	s.Stop()
	s.Clear()
	return err
}

// Mark returns a ✓ for nil errors or ✗ for non-nil errors.
func Mark(err error) string {
	if err != nil {
		return FailMark
	}
	return SuccessMark
}

// FormatDuration formats a duration for display (e.g. "12ms" or "3.2s").
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// RenderMarkdown renders markdown with glamour. On failure the source is
// returned along with the error so callers can still print something.
func RenderMarkdown(content string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(markdownWidth),
	)
	if err != nil {
		return content, err
	}

	rendered, err := r.Render(content)
	if err != nil {
		return content, err
	}
	return rendered, nil
}
