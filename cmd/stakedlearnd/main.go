package main

import (
	"os"

	"github.com/stakedlearn/stakedlearn/cmd/stakedlearnd/cmd"
)

func main() {
	rootCmd := cmd.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
