// Package logger provides leveled logging for holt CLI commands.
//
// The logger supports verbosity levels controlled by command-line flags.
// Each line carries a level prefix colored with fatih/color.
//
// # Verbosity Levels
//
// Logging behavior is controlled by two flags:
//
//   - --verbose: Shows info messages
//   - --debug: Shows debug messages
//
// Warnings and errors are always shown, on stderr.
//
// # Log Methods
//
//	Logger.Infof()  // Shown with --verbose
//	Logger.Debugf() // Shown with --debug
//	Logger.Warnf()  // Always shown
//	Logger.Errorf() // Always shown
//
// # Usage
//
// Create a logger with the desired verbosity:
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Processing %d files", count)
//
// Commands typically create a logger in their PersistentPreRun and
// pass it to internal functions.
package logger
