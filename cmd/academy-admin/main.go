// Command academy-admin is the operational CLI for the academy service:
// migrations, development seeding, account management, and a login flow
// that talks to a running server the same way interactive clients do.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rodaworks/academy/internal/bootstrap"
)

func main() {
	logger := bootstrap.InitLogger()

	root := newRootCommand(logger)
	if err := root.ExecuteContext(context.Background()); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func newRootCommand(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "academy-admin",
		Short:         "Operational commands for the academy service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newMigrateCommand(logger),
		newSeedCommand(logger),
		newUserCommand(logger),
		newLoginCommand(),
		newWhoamiCommand(),
		newLogoutCommand(),
	)

	return root
}
