package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/orris-inc/ticketflow/internal/interfaces/cli/directory"
	"github.com/orris-inc/ticketflow/internal/interfaces/cli/events"
	"github.com/orris-inc/ticketflow/internal/interfaces/cli/migrate"
	"github.com/orris-inc/ticketflow/internal/interfaces/cli/schema"
	"github.com/orris-inc/ticketflow/internal/interfaces/cli/server"
	"github.com/orris-inc/ticketflow/internal/interfaces/cli/token"
)

//	@title						Ticketflow API
//	@version					1.0
//	@description				Versioned ticket schemas with form and review steps, and the tickets that run through them.
//	@BasePath					/
//	@securityDefinitions.apikey	Bearer
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the access token.
func main() {
	rootCmd := &cobra.Command{
		Use:           "ticketflow",
		Short:         "Ticketflow - a ticket workflow engine",
		Long:          `Ticketflow publishes ticket schemas and drives tickets through their form and review steps.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		schema.NewCommand(),
		directory.NewCommand(),
		token.NewCommand(),
		events.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
