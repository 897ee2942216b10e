// Package scenarioscmder provides the scenarios command that lists the
// practice scenarios.
package scenarioscmder

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/globalbuddy/buddy/pkg/client"
	"github.com/globalbuddy/buddy/pkg/cliui"
	"github.com/globalbuddy/buddy/pkg/config"
	"github.com/globalbuddy/buddy/pkg/scenario"
)

type scenariosCommander struct {
	target       string
	scenarioFile string
	remote       bool
	asJSON       bool
}

const scenariosLongDesc string = `List the practice scenarios.

By default the built-in scenarios are listed, followed by any custom
scenarios from --scenarios (or scenarios.file in the config). With
--remote the list is fetched from a running buddy server instead.

Examples:
  buddy scenarios
  buddy scenarios --scenarios ./scenarios.toml
  buddy scenarios --remote --json`

const scenariosShortDesc string = "List practice scenarios"

func NewScenariosCmd() *cobra.Command {
	cmder := &scenariosCommander{}

	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: scenariosShortDesc,
		Long:  scenariosLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.Flags, []string{config.FlagTarget, config.FlagScenarios})
			cmder.target = v.GetString("client.target")
			cmder.scenarioFile = v.GetString("scenarios.file")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagTarget, &cmder.target)
	config.AddStringFlag(cmd, config.Flags, config.FlagScenarios, &cmder.scenarioFile)
	cmd.Flags().BoolVar(&cmder.remote, "remote", false, "Fetch scenarios from the buddy server")
	cmd.Flags().BoolVar(&cmder.asJSON, "json", false, "Print scenarios as JSON")

	return cmd
}

func (c *scenariosCommander) run(cmd *cobra.Command) error {
	var scenarios []scenario.Scenario

	if c.remote {
		var err error
		scenarios, err = client.New(c.target).Scenarios(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetching scenarios: %w", err)
		}
	} else {
		catalog, err := scenario.LoadFile(c.scenarioFile)
		if err != nil {
			return fmt.Errorf("loading scenarios: %w", err)
		}
		scenarios = catalog.All()
	}

	return c.print(cmd.OutOrStdout(), scenarios)
}

func (c *scenariosCommander) print(w io.Writer, scenarios []scenario.Scenario) error {
	if c.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(scenarios)
	}

	rendered, err := cliui.RenderMarkdown(cliui.RenderScenarios(scenarios))
	if err != nil {
		return fmt.Errorf("rendering scenarios: %w", err)
	}
	_, err = fmt.Fprint(w, rendered)
	return err
}
