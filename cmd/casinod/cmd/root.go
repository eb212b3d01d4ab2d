// Package cmd builds the casinod command tree: start|query|version,
// replacing the teacher's single flag.String-based main.go
// (apps/chain/cmd/ocpd/main.go) with the cobra tree spec.md's
// generalized CLI section calls for. It does not pull in the sibling
// apps/cosmos daemon's depinject/autocli machinery — that wiring is
// specific to a full Cosmos SDK module set this repo doesn't have.
package cmd

import (
	"github.com/spf13/cobra"
)

var homeDir string

// NewRootCmd builds the casinod root command. Called once from main.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "casinod",
		Short:         "casinochain state-transition node",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&homeDir, "home", ".casino", "node home directory")

	root.AddCommand(newStartCmd())
	root.AddCommand(newQueryCmd())
	root.AddCommand(newVersionCmd())
	return root
}
