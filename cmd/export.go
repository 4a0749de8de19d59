package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Decrypt every secret and print it as KEY=value lines",
	Run: func(cmd *cobra.Command, args []string) {
		v, err := openVault()
		if err != nil {
			printError("Failed to open vault", err)
			return
		}

		pairs, err := v.Export(context.Background())
		if err != nil {
			printError("Failed to export secrets", err)
			return
		}

		keys := make([]string, 0, len(pairs))
		for k := range pairs {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			fmt.Printf("%s=%s\n", k, pairs[k])
		}
	},
}
