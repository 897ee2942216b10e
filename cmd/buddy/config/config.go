// Package configcmder provides the config command for managing persistent
// buddy configuration stored in the .buddy/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent buddy configuration.

Configuration is stored as config.toml in the .buddy/ directory and provides
default values for command flags. CLI flags and BUDDY_* environment
variables always take precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  server.listen, server.allow_origins, server.workers, server.queue_size,
  model.provider, model.name, model.upstream, model.api_key,
  storage.sqlite_path, storage.postgres_dsn,
  log.dir, log.file, client.target,
  events.brokers, events.topic, scenarios.file

Use subcommands to get, set, or list configuration values:
  buddy config set <key> <value>    Set a configuration value
  buddy config get <key>            Get a configuration value
  buddy config list                 List all configuration values

Examples:
  buddy config set model.provider ollama
  buddy config set storage.sqlite_path ./buddy.db
  buddy config get model.provider
  buddy config list`

const configShortDesc string = "Manage persistent buddy configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
