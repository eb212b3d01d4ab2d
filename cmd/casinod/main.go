package main

import (
	"fmt"
	"os"

	"casinochain/cmd/casinod/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
