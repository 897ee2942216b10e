// Package chatcmder provides the chat command for practicing a scenario
// against a running buddy server in the terminal.
package chatcmder

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/globalbuddy/buddy/pkg/chat"
	"github.com/globalbuddy/buddy/pkg/client"
	"github.com/globalbuddy/buddy/pkg/cliui"
	"github.com/globalbuddy/buddy/pkg/config"
	"github.com/globalbuddy/buddy/pkg/dotdir"
	"github.com/globalbuddy/buddy/pkg/logger"
	"github.com/globalbuddy/buddy/pkg/scenario"
)

var userPrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true).Render("you> ")

const helpText = `**Commands**

| Command | |
|---|---|
| /t | Show or hide the translation of the last reply |
| /t N | Show or hide the translation of bubble N |
| /reset | Start the conversation over |
| /help | Show this help |
| /exit | Save and quit (Ctrl+D works too) |`

type chatCommander struct {
	target       string
	scenarioID   string
	scenarioFile string
	resume       bool
	configDir    string
	debug        bool

	in     io.Reader
	out    io.Writer
	spin   bool
	logger *slog.Logger
}

const chatLongDesc string = `Practice an English conversation in the terminal.

The chat command talks to a running "buddy serve". For roleplay scenarios
the assistant opens the conversation; for free conversation it proposes a
topic. Each of your messages is answered with a Korean translation of what
you said and up to two more natural ways to say it.

The session is saved to .buddy/session.json on exit. Use --resume to
continue it.

Examples:
  buddy chat
  buddy chat --scenario restaurant
  buddy chat --resume
  buddy chat --target http://buddy.internal:8080`

const chatShortDesc string = "Practice a conversation in the terminal"

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")
			cfger, err := config.NewConfiger(cmder.configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			cfg, err := cfger.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			if !cmd.Flags().Changed(config.Flags[config.FlagTarget].Name) {
				cmder.target = cfg.Client.Target
			}
			if !cmd.Flags().Changed(config.Flags[config.FlagScenarios].Name) {
				cmder.scenarioFile = cfg.Scenarios.File
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			cmder.in = cmd.InOrStdin()
			cmder.out = cmd.OutOrStdout()
			cmder.spin = isTerminal(cmder.out)
			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagTarget, &cmder.target)
	config.AddStringFlag(cmd, config.Flags, config.FlagScenarios, &cmder.scenarioFile)
	cmd.Flags().StringVarP(&cmder.scenarioID, "scenario", "s", scenario.FreeID, "Scenario to practice (see \"buddy scenarios\")")
	cmd.Flags().BoolVarP(&cmder.resume, "resume", "r", false, "Continue the last saved session")

	return cmd
}

func (c *chatCommander) run(ctx context.Context) error {
	c.logger = logger.New(logger.WithDebug(c.debug), logger.WithPretty(true), logger.WithWriter(os.Stderr))

	catalog, err := scenario.LoadFile(c.scenarioFile)
	if err != nil {
		return fmt.Errorf("loading scenarios: %w", err)
	}

	cl := client.New(c.target)

	err = c.step("Connecting to "+c.target, func() error {
		_, err := cl.Scenarios(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("connecting to buddy server: %w", err)
	}

	session, restored, err := c.newSession(catalog, cl)
	if err != nil {
		return err
	}

	sc := session.Scenario()
	fmt.Fprintf(c.out, "\n  %s\n", cliui.ScenarioHeader(sc))
	if sc.Description != "" {
		fmt.Fprintf(c.out, "  %s\n", cliui.DimStyle.Render(sc.Description))
	}
	fmt.Fprintf(c.out, "  %s\n\n", cliui.DimStyle.Render("Type your message and press Enter. /help for commands, /exit or Ctrl+D to quit."))

	if restored {
		fmt.Fprintf(c.out, "  %s Resuming session %s\n\n",
			cliui.SuccessMark,
			cliui.DimStyle.Render(session.ID()),
		)
		fmt.Fprintln(c.out, cliui.RenderConversation(session.Bubbles()))
	} else {
		c.open(ctx, session)
	}

	scanner := bufio.NewScanner(c.in)
	for {
		fmt.Fprint(c.out, userPrompt)
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/exit" {
			break
		}

		if strings.HasPrefix(input, "/") {
			c.command(ctx, session, input)
			continue
		}

		c.send(ctx, session, input)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	fmt.Fprintln(c.out)
	return c.save(session)
}

// newSession restores the saved session when --resume is set and one exists.
func (c *chatCommander) newSession(catalog *scenario.Catalog, t chat.Transport) (*chat.Session, bool, error) {
	opts := []chat.Option{chat.WithLogger(c.logger)}

	if c.resume {
		state, err := dotdir.NewManager().LoadSessionState(c.configDir)
		if err != nil {
			return nil, false, fmt.Errorf("loading session state: %w", err)
		}
		if state != nil && len(state.Messages) > 0 {
			opts = append(opts, chat.WithID(state.SessionID), chat.WithTurns(fromState(state)))
			return chat.NewSession(catalog.Resolve(state.ScenarioID), t, opts...), true, nil
		}
		c.logger.Debug("no saved session, starting a new one")
	}

	return chat.NewSession(catalog.Resolve(c.scenarioID), t, opts...), false, nil
}

func (c *chatCommander) open(ctx context.Context, session *chat.Session) {
	err := c.step("Starting conversation", func() error {
		return session.Open(ctx)
	})
	if err != nil {
		fmt.Fprintf(c.out, "  %s\n", cliui.DimStyle.Render("Say hello to get started."))
		return
	}
	if len(session.Visible()) > 0 {
		fmt.Fprintln(c.out, cliui.RenderConversation(session.Bubbles()))
	}
}

func (c *chatCommander) send(ctx context.Context, session *chat.Session, input string) {
	_ = c.wait("buddy is typing…", func() error {
		_, err := session.Send(ctx, input)
		return err
	})

	// The user bubble only gets its annotations once the reply is in, so
	// both are printed together.
	bubbles := session.Bubbles()
	start := max(len(bubbles)-2, 0)
	for i := start; i < len(bubbles); i++ {
		fmt.Fprintln(c.out, cliui.RenderBubble(bubbles[i], i+1))
	}
}

func (c *chatCommander) command(ctx context.Context, session *chat.Session, input string) {
	fields := strings.Fields(input)

	switch fields[0] {
	case "/t":
		n, err := c.toggleTarget(session, fields[1:])
		if err != nil {
			fmt.Fprintf(c.out, "  %s %v\n", cliui.FailMark, err)
			return
		}
		bubbles := session.Bubbles()
		fmt.Fprintln(c.out, cliui.RenderBubble(bubbles[n-1], n))

	case "/reset":
		session.Reset()
		fmt.Fprintf(c.out, "  %s Conversation cleared\n", cliui.SuccessMark)
		c.open(ctx, session)

	case "/help":
		rendered, err := cliui.RenderMarkdown(helpText)
		if err != nil {
			c.logger.Debug("rendering help", "error", err)
		}
		fmt.Fprintln(c.out, rendered)

	default:
		fmt.Fprintf(c.out, "  %s unknown command %s (try /help)\n", cliui.FailMark, fields[0])
	}
}

// toggleTarget flips the translation of bubble N, or of the last assistant
// bubble when no N is given, and returns its 1-based position.
func (c *chatCommander) toggleTarget(session *chat.Session, args []string) (int, error) {
	bubbles := session.Bubbles()

	n := 0
	if len(args) > 0 {
		var err error
		n, err = strconv.Atoi(args[0])
		if err != nil || n < 1 || n > len(bubbles) {
			return 0, fmt.Errorf("no bubble %q", args[0])
		}
		if bubbles[n-1].Turn.FromUser() {
			return 0, fmt.Errorf("bubble %d is your own message", n)
		}
	} else {
		for i := len(bubbles) - 1; i >= 0; i-- {
			if !bubbles[i].Turn.FromUser() {
				n = i + 1
				break
			}
		}
		if n == 0 {
			return 0, errors.New("no reply to translate yet")
		}
	}

	if !bubbles[n-1].Reply.HasSecondary {
		return 0, fmt.Errorf("bubble %d has no translation", n)
	}

	session.ToggleTranslation(bubbles[n-1].Turn.ID)
	return n, nil
}

func (c *chatCommander) step(msg string, fn func() error) error {
	if c.spin {
		return cliui.Step(c.out, msg, fn)
	}
	return fn()
}

func (c *chatCommander) wait(msg string, fn func() error) error {
	if c.spin {
		return cliui.Wait(c.out, msg, fn)
	}
	return fn()
}

// isTerminal reports whether w is a terminal. Anything that is not an
// *os.File, like a test buffer, is not.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (c *chatCommander) save(session *chat.Session) error {
	turns := session.Turns()
	if len(turns) == 0 {
		return nil
	}

	state := &dotdir.SessionState{
		SessionID:  session.ID(),
		ScenarioID: session.Scenario().ID,
		SavedAt:    time.Now(),
		Messages:   make([]dotdir.SessionMessage, 0, len(turns)),
	}
	for _, t := range turns {
		state.Messages = append(state.Messages, dotdir.SessionMessage{
			ID:     t.ID,
			Text:   t.Text,
			Sender: string(t.Sender),
			Hidden: t.Hidden,
		})
	}

	if err := dotdir.NewManager().SaveSession(state, c.configDir); err != nil {
		c.logger.Warn("could not save session", "error", err)
		return nil
	}

	fmt.Fprintf(c.out, "  %s Session saved. Continue with \"buddy chat --resume\".\n", cliui.SuccessMark)
	return nil
}

func fromState(state *dotdir.SessionState) []chat.Turn {
	turns := make([]chat.Turn, 0, len(state.Messages))
	for _, m := range state.Messages {
		turns = append(turns, chat.Turn{
			ID:     m.ID,
			Text:   m.Text,
			Sender: chat.Sender(m.Sender),
			Hidden: m.Hidden,
		})
	}
	return turns
}
