package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var recipientsCmd = &cobra.Command{
	Use:   "recipients",
	Short: "Manage the vault's recipient team",
}

var recipientsAddCmd = &cobra.Command{
	Use:   "add <name> <public-key>",
	Short: "Add a recipient and re-encrypt existing secrets for them",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		s, cleanup := startSpinner("Adding recipient...")
		defer cleanup()

		v, err := openVault()
		if err != nil {
			printError("Failed to open vault", err)
			return
		}

		if err := v.AddRecipient(context.Background(), args[0], args[1]); err != nil {
			printError("Failed to add recipient", err)
			return
		}

		s.FinalMSG = "✓ Added recipient " + args[0] + "\n"
	},
}

var recipientsRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a recipient and re-encrypt remaining secrets",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s, cleanup := startSpinner("Removing recipient...")
		defer cleanup()

		v, err := openVault()
		if err != nil {
			printError("Failed to open vault", err)
			return
		}

		if err := v.RemoveRecipient(context.Background(), args[0]); err != nil {
			printError("Failed to remove recipient", err)
			return
		}

		s.FinalMSG = "✓ Removed recipient " + args[0] + "\n"
	},
}

var recipientsListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the vault's recipients",
	Run: func(cmd *cobra.Command, args []string) {
		v, err := openVault()
		if err != nil {
			printError("Failed to open vault", err)
			return
		}

		for _, r := range v.Recipients() {
			fmt.Printf("%s\t%s\n", r.Name, r.PublicKey)
		}
		for _, name := range v.RecipientWarnings() {
			Logger.Warnf("recipient %q has an unparseable public key", name)
		}
	},
}

func init() {
	recipientsCmd.AddCommand(recipientsAddCmd)
	recipientsCmd.AddCommand(recipientsRemoveCmd)
	recipientsCmd.AddCommand(recipientsListCmd)
}
