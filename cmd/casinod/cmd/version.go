package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"casinochain/internal/app"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print casinod's application version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("casinod app version %d\n", app.Version)
			return nil
		},
	}
}
