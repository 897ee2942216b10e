package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/globalbuddy/buddy/pkg/logger"
	"github.com/globalbuddy/buddy/pkg/reply"
	"github.com/globalbuddy/buddy/pkg/scenario"
)

// FailureMessage is shown as the assistant's reply when a send fails.
const FailureMessage = "응답에 실패했어요. 다시 시도해주세요."

var (
	// ErrEmptyMessage is returned by Send for blank input.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrBusy is returned while a reply is still outstanding.
	ErrBusy = errors.New("a reply is already pending")

	// ErrReset is returned by Open and Send when the conversation was reset
	// while the reply was outstanding. The reply is discarded.
	ErrReset = errors.New("conversation was reset")
)

// Session is the state of one chat with one scenario. It is safe for
// concurrent use; at most one generation is outstanding at a time.
type Session struct {
	id        string
	scenario  scenario.Scenario
	transport Transport
	logger    *slog.Logger
	rand      *rand.Rand

	mu       sync.Mutex
	turns    []Turn
	expanded map[string]bool
	pending  bool
	opened   bool

	// epoch is bumped by Reset so that replies arriving for a cleared
	// conversation are discarded.
	epoch int
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRand sets the random source used to render openings.
func WithRand(r *rand.Rand) Option {
	return func(s *Session) {
		s.rand = r
	}
}

// WithID sets the session ID. By default a random UUID is used.
func WithID(id string) Option {
	return func(s *Session) {
		s.id = id
	}
}

// WithTurns restores a previous conversation. A non-empty history counts
// as already opened.
func WithTurns(turns []Turn) Option {
	return func(s *Session) {
		s.turns = slices.Clone(turns)
		s.opened = len(turns) > 0
	}
}

// NewSession creates a session for sc that talks through t.
func NewSession(sc scenario.Scenario, t Transport, opts ...Option) *Session {
	s := &Session{
		id:        uuid.NewString(),
		scenario:  sc,
		transport: t,
		logger:    logger.Nop(),
		expanded:  map[string]bool{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session ID sent with every request.
func (s *Session) ID() string {
	return s.id
}

// Scenario returns the session's scenario.
func (s *Session) Scenario() scenario.Scenario {
	return s.scenario
}

// Pending reports whether a reply is outstanding.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Open asks the assistant to start the conversation. It runs at most once
// per session; later calls return nil. On success the conversation becomes
// the hidden trigger followed by the reply. On failure nothing is appended.
// A Reset while the opening is outstanding makes Open return ErrReset.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	if s.opened {
		s.mu.Unlock()
		return nil
	}
	if s.pending {
		s.mu.Unlock()
		return ErrBusy
	}
	s.opened = true

	if s.scenario.Opening.Empty() {
		s.mu.Unlock()
		return nil
	}

	trigger := NewTurn(SenderUser, s.scenario.Opening.Render(s.rand), true)
	s.pending = true
	epoch := s.epoch
	s.mu.Unlock()

	text, err := s.transport.Reply(ctx, s.request([]Turn{trigger}))

	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		return ErrReset
	}
	s.pending = false

	if err != nil {
		s.logger.Warn("opening failed",
			"session_id", s.id,
			"scenario", s.scenario.ID,
			"error", err,
		)
		return fmt.Errorf("opening conversation: %w", err)
	}

	s.turns = []Turn{trigger, NewTurn(SenderAssistant, text, false)}
	return nil
}

// Send appends a user turn and waits for the assistant's reply. The
// returned turn is the appended assistant turn. When the transport fails,
// a turn carrying FailureMessage is appended and returned with the error.
// When Reset runs before the reply arrives, nothing is appended and
// ErrReset is returned.
func (s *Session) Send(ctx context.Context, text string) (Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Turn{}, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		return Turn{}, ErrBusy
	}
	s.turns = append(s.turns, NewTurn(SenderUser, text, false))
	snapshot := slices.Clone(s.turns)
	s.pending = true
	epoch := s.epoch
	s.mu.Unlock()

	raw, err := s.transport.Reply(ctx, s.request(snapshot))

	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		return Turn{}, ErrReset
	}
	s.pending = false

	if err != nil {
		s.logger.Error("reply failed",
			"session_id", s.id,
			"scenario", s.scenario.ID,
			"error", err,
		)
		failed := NewTurn(SenderAssistant, FailureMessage, false)
		s.turns = append(s.turns, failed)
		return failed, fmt.Errorf("sending message: %w", err)
	}

	answer := NewTurn(SenderAssistant, raw, false)
	s.turns = append(s.turns, answer)
	return answer, nil
}

func (s *Session) request(turns []Turn) Request {
	return Request{
		SessionID:  s.id,
		ScenarioID: s.scenario.ID,
		Messages:   turns,
	}
}

// Turns returns a copy of every turn, hidden ones included.
func (s *Session) Turns() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.turns)
}

// Visible returns the turns that are rendered.
func (s *Session) Visible() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return visible(s.turns)
}

func visible(turns []Turn) []Turn {
	out := make([]Turn, 0, len(turns))
	for _, t := range turns {
		if !t.Hidden {
			out = append(out, t)
		}
	}
	return out
}

// ToggleTranslation flips whether the reply translation of turn id is shown.
func (s *Session) ToggleTranslation(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.expanded[id] {
		delete(s.expanded, id)
		return
	}
	s.expanded[id] = true
}

// Expanded reports whether the reply translation of turn id is shown.
func (s *Session) Expanded(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expanded[id]
}

// Reset clears the conversation. A reply still in flight is discarded and
// the opening may be requested again.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = nil
	s.expanded = map[string]bool{}
	s.pending = false
	s.opened = false
	s.epoch++
}

// Bubble is the render model of one visible turn.
type Bubble struct {
	Turn Turn

	// Reply is the decoded turn. Set for assistant bubbles only.
	Reply reply.Decoded

	// Expanded mirrors ToggleTranslation for assistant bubbles.
	Expanded bool

	// UserTranslation and Naturalness annotate a user bubble. They come
	// from the assistant turn that directly follows it. UserTranslation is
	// only set when the user wrote Korean.
	UserTranslation string
	Naturalness     []string
}

// Bubbles returns the render model of the visible conversation.
func (s *Session) Bubbles() []Bubble {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := visible(s.turns)
	bubbles := make([]Bubble, 0, len(turns))
	for i, t := range turns {
		b := Bubble{Turn: t}
		if t.FromUser() {
			if i+1 < len(turns) && !turns[i+1].FromUser() {
				next := reply.Decode(turns[i+1].Text)
				if reply.ContainsHangul(t.Text) {
					b.UserTranslation = next.UserTranslation
				}
				b.Naturalness = next.Naturalness
			}
		} else {
			b.Reply = reply.Decode(t.Text)
			b.Expanded = s.expanded[t.ID]
		}
		bubbles = append(bubbles, b)
	}
	return bubbles
}
