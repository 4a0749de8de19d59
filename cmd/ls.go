package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List secret keys stored in the vault",
	Run: func(cmd *cobra.Command, args []string) {
		v, err := openVault()
		if err != nil {
			printError("Failed to open vault", err)
			return
		}

		for _, key := range v.List() {
			fmt.Println(key)
		}
	},
}
