// Package careeraicmder
package careeraicmder

import (
	"github.com/spf13/cobra"

	chatcmder "github.com/careerai/relay/cmd/careerai/chat"
	configcmder "github.com/careerai/relay/cmd/careerai/config"
	servecmder "github.com/careerai/relay/cmd/careerai/serve"
	versioncmder "github.com/careerai/relay/cmd/version"
)

const careeraiLongDesc string = `CareerAI relays chat requests to OpenRouter without exposing the API key.

Run the relay using:
  careerai serve       Run the chat relay server
  careerai chat        Chat with a running relay from the terminal`

const careeraiShortDesc string = "CareerAI - OpenRouter chat relay"

func NewCareerAICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "careerai",
		Short:        careeraiShortDesc,
		Long:         careeraiLongDesc,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to .careerai/ config directory")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
