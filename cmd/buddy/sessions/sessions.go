// Package sessionscmder provides the sessions command that browses the
// transcripts stored by a buddy server.
package sessionscmder

import (
	"fmt"
	"io"
	"net/http"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/globalbuddy/buddy/pkg/client"
	"github.com/globalbuddy/buddy/pkg/cliui"
	"github.com/globalbuddy/buddy/pkg/config"
	"github.com/globalbuddy/buddy/pkg/utils"
)

const previewLen = 48

type sessionsCommander struct {
	target string
}

const sessionsLongDesc string = `Browse stored chat sessions.

Without arguments, lists the sessions stored by the buddy server, most
recently active first. With a session ID, prints that session's turns.

Examples:
  buddy sessions
  buddy sessions 0199a5f2-4a9e-7c1b-9d3e-2f1a6b7c8d9e`

const sessionsShortDesc string = "Browse stored chat sessions"

func NewSessionsCmd() *cobra.Command {
	cmder := &sessionsCommander{}

	cmd := &cobra.Command{
		Use:   "sessions [session-id]",
		Short: sessionsShortDesc,
		Long:  sessionsLongDesc,
		Args:  cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.Flags, []string{config.FlagTarget})
			cmder.target = v.GetString("client.target")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cl := client.New(cmder.target)
			if len(args) == 1 {
				return cmder.turns(cmd, cl, args[0])
			}
			return cmder.list(cmd, cl)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagTarget, &cmder.target)

	return cmd
}

func (c *sessionsCommander) list(cmd *cobra.Command, cl *client.Client) error {
	sessions, err := cl.Sessions(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing sessions: %w", err)
	}

	w := cmd.OutOrStdout()
	if len(sessions) == 0 {
		fmt.Fprintf(w, "  %s\n", cliui.DimStyle.Render("No sessions stored yet."))
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SESSION\tSCENARIO\tTURNS\tLAST ACTIVE")
	for _, s := range sessions {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n",
			s.ID, s.ScenarioID, s.Turns, s.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func (c *sessionsCommander) turns(cmd *cobra.Command, cl *client.Client, id string) error {
	records, err := cl.Turns(cmd.Context(), id)
	if client.IsStatus(err, http.StatusNotFound) {
		return fmt.Errorf("session %s not found", id)
	}
	if err != nil {
		return fmt.Errorf("listing turns: %w", err)
	}

	w := cmd.OutOrStdout()
	for _, r := range records {
		printTurn(w, r.CreatedAt.Local().Format("15:04:05"), r.UserText, r.Reply)
	}
	return nil
}

func printTurn(w io.Writer, at, user, reply string) {
	fmt.Fprintf(w, "%s %s %s\n",
		cliui.DimStyle.Render(at),
		cliui.KeyStyle.Render("you:"),
		user,
	)
	fmt.Fprintf(w, "%s %s %s\n\n",
		cliui.DimStyle.Render(at),
		cliui.NameStyle.Render("buddy:"),
		utils.Truncate(reply, previewLen),
	)
}
