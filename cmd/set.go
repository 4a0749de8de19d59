package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var setForce bool

func init() {
	setCmd.Flags().BoolVar(&setForce, "force", false, "overwrite an existing secret")
}

var setCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Encrypt and store a secret",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		s, cleanup := startSpinner("Encrypting secret...")
		defer cleanup()

		v, err := openVault()
		if err != nil {
			printError("Failed to open vault", err)
			return
		}

		if err := v.Set(context.Background(), args[0], args[1], setForce); err != nil {
			printError("Failed to set secret", err)
			return
		}

		s.FinalMSG = "✓ Stored " + args[0] + "\n"
	},
}
