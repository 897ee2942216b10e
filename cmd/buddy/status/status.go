// Package statuscmder provides the status command for displaying the saved
// chat session and whether the buddy server is reachable.
package statuscmder

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/globalbuddy/buddy/pkg/client"
	"github.com/globalbuddy/buddy/pkg/cliui"
	"github.com/globalbuddy/buddy/pkg/config"
	"github.com/globalbuddy/buddy/pkg/dotdir"
	"github.com/globalbuddy/buddy/pkg/utils"
)

const previewLen = 72

const statusLongDesc string = `Show the saved chat session and server status.

Reads the local .buddy/ directory (or ~/.buddy/) to display the session
that "buddy chat --resume" would continue, then checks whether the
configured buddy server answers.

Examples:
  buddy status`

const statusShortDesc string = "Show saved session and server status"

func NewStatusCmd() *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "status",
		Short: statusShortDesc,
		Long:  statusLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			config.BindRegisteredFlags(v, cmd, config.Flags, []string{config.FlagTarget})

			w := cmd.OutOrStdout()
			if err := printSession(w, configDir); err != nil {
				return err
			}

			target = v.GetString("client.target")
			err = client.New(target).Ping(cmd.Context())
			fmt.Fprintf(w, "  %s %s %s\n\n",
				cliui.Mark(err),
				cliui.KeyStyle.Render("Server:"),
				cliui.ValueStyle.Render(target),
			)
			return nil
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagTarget, &target)

	return cmd
}

func printSession(w io.Writer, configDir string) error {
	state, err := dotdir.NewManager().LoadSessionState(configDir)
	if err != nil {
		return fmt.Errorf("loading session state: %w", err)
	}

	if state == nil {
		fmt.Fprintf(w, "\n  %s No saved session. Next chat will start a new conversation.\n\n", cliui.DimStyle.Render("●"))
		return nil
	}

	fmt.Fprintf(w, "\n  %s  %s\n", cliui.KeyStyle.Render("Session: "), cliui.ValueStyle.Render(state.SessionID))
	fmt.Fprintf(w, "  %s  %s\n", cliui.KeyStyle.Render("Scenario:"), cliui.NameStyle.Render(state.ScenarioID))
	fmt.Fprintf(w, "  %s  %s\n\n", cliui.KeyStyle.Render("Messages:"), cliui.NameStyle.Render(strconv.Itoa(len(state.Messages))))

	n := 0
	for _, msg := range state.Messages {
		if msg.Hidden {
			continue
		}
		n++
		fmt.Fprintf(w, "  %s %s %s\n",
			cliui.DimStyle.Render(fmt.Sprintf("%d.", n)),
			cliui.KeyStyle.Render("["+msg.Sender+"]"),
			cliui.StepStyle.Render(utils.Truncate(msg.Text, previewLen)),
		)
	}

	fmt.Fprintln(w)
	return nil
}
