package cmd

import (
	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm <key>",
	Short: "Delete a secret from the vault",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s, cleanup := startSpinner("Removing secret...")
		defer cleanup()

		v, err := openVault()
		if err != nil {
			printError("Failed to open vault", err)
			return
		}

		if err := v.Delete(args[0]); err != nil {
			printError("Failed to remove secret", err)
			return
		}

		s.FinalMSG = "✓ Removed " + args[0] + "\n"
	},
}
