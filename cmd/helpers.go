package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/briandowns/spinner"

	"github.com/holtvault/holt/internal/ui"
	"github.com/holtvault/holt/internal/vault"
)

// startSpinner creates and starts a spinner with the given message when
// not in verbose or debug mode. Returns the spinner and a function that
// must be deferred to clean up.
//
// spinner.FinalMSG values do not need a trailing newline; cleanup ensures
// one via ui.EnsureNewline before printing.
func startSpinner(message string) (*spinner.Spinner, func()) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message
	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("failed to set spinner color: %v", err)
	}

	if !verbose && !debug {
		s.Start()
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("%s", message)
	}

	cleanup := func() {
		if !verbose && !debug {
			log.SetOutput(os.Stdout)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			s.FinalMSG = ""
		}
		if !verbose && !debug {
			s.Stop()
		}
		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

func printError(context string, err error) {
	Logger.Errorf("%s: %v", context, err)
	fmt.Println(ui.Error.Sprint("✗") + " " + context + ": " + err.Error())
}

// openVault opens the vault rooted at the current working directory.
func openVault() (*vault.Engine, error) {
	return vault.Open("", Logger)
}
