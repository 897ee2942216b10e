// Package convlog appends finished conversation turns to human readable
// per-day, per-session text files.
//
// Files live at <root>/<YYYY-MM-DD>/<sessionID>_<label>.txt. The first write
// to a file puts a header in front of the first record.
package convlog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/globalbuddy/buddy/pkg/logger"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
	ruleWidth      = 44
)

// Entry is one user message and the assistant's reply to it.
type Entry struct {
	SessionID string
	Label     string
	Emoji     string
	UserText  string
	Reply     string

	// Time defaults to the log's clock when zero.
	Time time.Time
}

// Log writes entries below a root directory. Failures are reported on the
// logger and never returned.
type Log struct {
	root   string
	logger *slog.Logger
	now    func() time.Time

	mu sync.Mutex
}

// Option configures a Log.
type Option func(*Log)

// WithLogger sets the logger failures are reported on.
func WithLogger(l *slog.Logger) Option {
	return func(c *Log) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Log) {
		c.now = now
	}
}

// New creates a Log rooted at root.
func New(root string, opts ...Option) *Log {
	c := &Log{
		root:   root,
		logger: logger.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Root returns the directory the log writes below.
func (c *Log) Root() string {
	return c.root
}

// Path returns the file an entry is appended to.
func (c *Log) Path(e Entry) string {
	t := e.Time
	if t.IsZero() {
		t = c.now()
	}
	name := Sanitize(e.SessionID) + "_" + Sanitize(e.Label) + ".txt"
	return filepath.Join(c.root, t.Format(dateLayout), name)
}

// Append writes e, creating the day directory and the file header as needed.
func (c *Log) Append(e Entry) {
	if e.Time.IsZero() {
		e.Time = c.now()
	}

	if err := c.append(e); err != nil {
		c.logger.Error("conversation log write failed",
			"session_id", e.SessionID,
			"label", e.Label,
			"error", err,
		)
	}
}

func (c *Log) append(e Entry) error {
	path := c.Path(e)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat log file: %w", err)
	}

	var b strings.Builder
	if info.Size() == 0 {
		b.WriteString(Header(e))
	}
	b.WriteString(Record(e))

	if _, err := f.WriteString(b.String()); err != nil {
		return fmt.Errorf("writing log file: %w", err)
	}
	return nil
}

// Header is written once at the top of every log file.
func Header(e Entry) string {
	return fmt.Sprintf("📅 %s | %s %s\n%s\n",
		e.Time.Format(dateTimeLayout), e.Emoji, e.Label, strings.Repeat("═", ruleWidth))
}

// Record is the text appended for one entry.
func Record(e Entry) string {
	return fmt.Sprintf("[사용자] %s\n[Sarah]  %s\n", e.UserText, e.Reply)
}

// Sanitize turns s into a single, safe path element.
func Sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r < 0x20, r == 0x7f:
			return '_'
		case strings.ContainsRune(`/\:*?"<>|`, r):
			return '_'
		}
		return r
	}, strings.TrimSpace(s))

	if s == "" || strings.Trim(s, ".") == "" {
		return "_"
	}
	return s
}
