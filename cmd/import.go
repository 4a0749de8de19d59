package cmd

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var importForce bool

func init() {
	importCmd.Flags().BoolVar(&importForce, "force", false, "overwrite existing secrets")
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import KEY=value pairs from a .env-style file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s, cleanup := startSpinner("Importing secrets...")
		defer cleanup()

		data, err := os.ReadFile(args[0])
		if err != nil {
			printError("Failed to read file", err)
			return
		}

		v, err := openVault()
		if err != nil {
			printError("Failed to open vault", err)
			return
		}

		imported, err := v.Import(context.Background(), parseEnvPairs(string(data)), importForce)
		if err != nil && len(imported) == 0 {
			printError("Failed to import secrets", err)
			return
		}

		s.FinalMSG = "✓ Imported " + strconv.Itoa(len(imported)) + " secrets\n"
		if err != nil {
			printError("Some entries failed to import", err)
		}
	},
}

// parseEnvPairs parses simple KEY=value lines, skipping blank lines and
// comments, and trimming a single layer of surrounding quotes from the
// value. It does not attempt to support multi-line values or escaping.
func parseEnvPairs(contents string) map[string]string {
	pairs := map[string]string{}
	for _, line := range strings.Split(contents, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if len(value) >= 2 && (value[0] == '"' || value[0] == '\'') && value[len(value)-1] == value[0] {
			value = value[1 : len(value)-1]
		}
		pairs[key] = value
	}
	return pairs
}
