package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var rotateCmd = &cobra.Command{
	Use:   "rotate <recipient>",
	Short: "Generate a new keypair for a recipient and re-encrypt the vault",
	Long: `Generates a fresh keypair for the named recipient, archives the
previous private key with a timestamp suffix, and re-encrypts every
secret for the updated recipient set.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s, cleanup := startSpinner("Rotating keypair...")
		defer cleanup()

		v, err := openVault()
		if err != nil {
			printError("Failed to open vault", err)
			return
		}

		result, err := v.Rotate(context.Background(), args[0])
		if err != nil {
			printError("Failed to rotate keypair", err)
			return
		}

		s.FinalMSG = "✓ Rotated keypair for " + result.RecipientName + "\n"
	},
}
