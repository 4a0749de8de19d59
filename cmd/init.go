package cmd

import (
	"github.com/spf13/cobra"

	"github.com/holtvault/holt/internal/vault"
)

var initCmd = &cobra.Command{
	Use:   "init <name>",
	Short: "Initialize a new vault in the current directory",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s, cleanup := startSpinner("Initializing vault...")
		defer cleanup()

		if _, err := vault.Init("", args[0], Logger); err != nil {
			printError("Failed to initialize vault", err)
			return
		}

		if err := vault.EnsureGitignore(""); err != nil {
			Logger.Warnf("failed to update .gitignore: %v", err)
		}

		s.FinalMSG = "✓ Vault initialized for " + args[0] + "\n"
	},
}
