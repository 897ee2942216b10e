// Package buddycmder is the buddy root command.
package buddycmder

import (
	"github.com/spf13/cobra"

	chatcmder "github.com/globalbuddy/buddy/cmd/buddy/chat"
	configcmder "github.com/globalbuddy/buddy/cmd/buddy/config"
	decodecmder "github.com/globalbuddy/buddy/cmd/buddy/decode"
	initcmder "github.com/globalbuddy/buddy/cmd/buddy/init"
	scenarioscmder "github.com/globalbuddy/buddy/cmd/buddy/scenarios"
	servecmder "github.com/globalbuddy/buddy/cmd/buddy/serve"
	sessionscmder "github.com/globalbuddy/buddy/cmd/buddy/sessions"
	statuscmder "github.com/globalbuddy/buddy/cmd/buddy/status"
	versioncmder "github.com/globalbuddy/buddy/cmd/version"
)

const buddyLongDesc string = `Buddy is an English conversation partner for Korean speakers.

Pick a situation (ordering at a cafe, checking into a hotel, a job interview)
or talk freely. Every reply comes with a Korean translation of what you said,
up to two more natural ways to say it, and a translation of the reply.

Run the server and chat with it:
  buddy serve          Run the chat API server
  buddy chat           Chat in the terminal
  buddy scenarios      List available scenarios`

const buddyShortDesc string = "Buddy - English conversation practice"

func NewBuddyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "buddy",
		Short:         buddyShortDesc,
		Long:          buddyLongDesc,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to .buddy/ config directory")

	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(scenarioscmder.NewScenariosCmd())
	cmd.AddCommand(decodecmder.NewDecodeCmd())
	cmd.AddCommand(sessionscmder.NewSessionsCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(statuscmder.NewStatusCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
