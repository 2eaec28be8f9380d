// Package configcmder provides the config command for managing persistent
// careerai configuration stored in the .careerai/ directory.
package configcmder

import (
	"github.com/spf13/cobra"

	"github.com/careerai/relay/pkg/config"
)

const configLongDesc string = `Manage persistent careerai configuration.

Configuration is stored as config.toml in the .careerai/ directory and provides
default values for command flags. Environment variables and CLI flags always
take precedence over config file values. The OpenRouter API key is never
stored here; set OPENROUTER_API_KEY or use secrets/.env.

Keys use dotted notation matching the TOML section structure:
  server.listen, server.cors_origins,
  openrouter.url, openrouter.model, openrouter.referer,
  openrouter.title, openrouter.timeout,
  client.relay_target

Use subcommands to get, set, or list configuration values:
  careerai config set <key> <value>    Set a configuration value
  careerai config get <key>            Get a configuration value
  careerai config list                 List all configuration values

Examples:
  careerai config set openrouter.model openai/gpt-4o-mini
  careerai config set server.listen :9000
  careerai config get openrouter.url
  careerai config list`

const configShortDesc string = "Manage persistent careerai configuration"

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

// validKeysFunc completes the first argument with the known config keys.
func validKeysFunc(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}
