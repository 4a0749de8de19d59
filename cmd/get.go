package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Decrypt and print a secret",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		v, err := openVault()
		if err != nil {
			printError("Failed to open vault", err)
			return
		}

		value, err := v.Get(context.Background(), args[0])
		if err != nil {
			printError("Failed to get secret", err)
			return
		}
		defer value.Wipe()

		fmt.Println(value.String())
	},
}
