package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	syncDryRun bool
	syncForce  bool
)

func init() {
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "report what sync would do without writing")
	syncCmd.Flags().BoolVar(&syncForce, "force", false, "re-encrypt even if the recipient fingerprint already matches")
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Re-encrypt the vault for the current recipient set if needed",
	Run: func(cmd *cobra.Command, args []string) {
		v, err := openVault()
		if err != nil {
			printError("Failed to open vault", err)
			return
		}

		result, err := v.Sync(context.Background(), syncDryRun, syncForce)
		if err != nil {
			printError("Failed to sync vault", err)
			return
		}

		if !result.WasNeeded {
			fmt.Println("✓ Vault already in sync")
			return
		}
		if syncDryRun {
			fmt.Printf("would re-encrypt %d secrets for %d recipients\n", result.Secrets, result.Recipients)
			return
		}
		fmt.Printf("✓ Synced %d secrets for %d recipients\n", result.Secrets, result.Recipients)
	},
}
