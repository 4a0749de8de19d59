package cmd

import (
	"os"

	figure "github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"

	logger "github.com/holtvault/holt/internal/logging"
)

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	RootCmd = &cobra.Command{
		Use:   "holt",
		Short: "Holt - a git-native, team-oriented secrets manager.",
		Long: `Holt keeps encrypted secrets alongside your code.

Every developer holds their own keypair; secrets are encrypted for every
current team member and re-encrypted automatically whenever the team
changes.

Usage:
  holt <command> [flags]
`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{Verbose: verbose, Debug: debug}
			Logger.Debugf("holt starting with verbose=%t debug=%t", verbose, debug)
		},
		Run: func(cmd *cobra.Command, args []string) {
			figure.NewFigure("holt", "", true).Print()
			cmd.Println("Run 'holt --help' to see available commands.")
		},
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	RootCmd.AddCommand(initCmd)
	RootCmd.AddCommand(setCmd)
	RootCmd.AddCommand(getCmd)
	RootCmd.AddCommand(rmCmd)
	RootCmd.AddCommand(lsCmd)
	RootCmd.AddCommand(importCmd)
	RootCmd.AddCommand(exportCmd)
	RootCmd.AddCommand(recipientsCmd)
	RootCmd.AddCommand(rotateCmd)
	RootCmd.AddCommand(syncCmd)
	RootCmd.AddCommand(statusCmd)
	RootCmd.AddCommand(requestCmd)
}

// Execute runs the root command, exiting with status 1 on error.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
