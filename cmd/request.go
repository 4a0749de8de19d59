package cmd

import (
	"fmt"

	"filippo.io/age"
	"github.com/spf13/cobra"

	"github.com/holtvault/holt/internal/identity"
	"github.com/holtvault/holt/internal/keystore"
)

var requestCmd = &cobra.Command{
	Use:   "request",
	Short: "Ask for or review access to a vault you aren't a recipient of",
}

var requestCreateCmd = &cobra.Command{
	Use:   "create <label>",
	Short: "Generate a project identity and drop a public-key request for an admin to add",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		projectID, err := identity.ProjectID(".")
		if err != nil {
			printError("Failed to resolve project", err)
			return
		}

		store, err := keystore.Open()
		if err != nil {
			printError("Failed to open key store", err)
			return
		}

		var pub string
		if store.HasProject(projectID) {
			id, err := store.LoadProject(projectID)
			if err != nil {
				printError("Failed to load existing project identity", err)
				return
			}
			x25519, ok := id.(*age.X25519Identity)
			if !ok {
				printError("Failed to load existing project identity", fmt.Errorf("unsupported identity type"))
				return
			}
			pub = x25519.Recipient().String()
		} else {
			id, err := store.GenerateProject(projectID)
			if err != nil {
				printError("Failed to generate project identity", err)
				return
			}
			pub = id.Recipient().String()
		}

		path, err := store.WriteRequest(projectID, args[0], pub)
		if err != nil {
			printError("Failed to write request", err)
			return
		}
		fmt.Printf("✓ Request written to %s\nShare this public key with a vault admin:\n%s\n", path, pub)
	},
}

var requestListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List pending access requests for the current vault",
	Run: func(cmd *cobra.Command, args []string) {
		projectID, err := identity.ProjectID(".")
		if err != nil {
			printError("Failed to resolve project", err)
			return
		}

		store, err := keystore.Open()
		if err != nil {
			printError("Failed to open key store", err)
			return
		}

		requests, err := store.ListRequests(projectID)
		if err != nil {
			printError("Failed to list requests", err)
			return
		}
		if len(requests) == 0 {
			fmt.Println("No pending requests")
			return
		}
		for _, r := range requests {
			fmt.Printf("%s\t%s\t%s\n", r.Label, r.Ticket, r.PublicKey)
		}
	},
}

func init() {
	requestCmd.AddCommand(requestCreateCmd)
	requestCmd.AddCommand(requestListCmd)
}
