package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the vault needs a sync and its recipient fingerprint",
	Run: func(cmd *cobra.Command, args []string) {
		v, err := openVault()
		if err != nil {
			printError("Failed to open vault", err)
			return
		}

		fmt.Printf("project:    %s\n", v.ProjectID())
		fmt.Printf("fingerprint: %s\n", v.RecipientsFingerprint())
		fmt.Printf("recipients: %d\n", len(v.Recipients()))
		fmt.Printf("secrets:    %d\n", len(v.List()))
		if v.NeedsSync() {
			fmt.Println("needs sync: yes")
		} else {
			fmt.Println("needs sync: no")
		}
	},
}
