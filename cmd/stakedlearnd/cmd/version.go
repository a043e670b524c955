package cmd

import (
	"runtime"

	"github.com/spf13/cobra"
)

// Set via -ldflags at build time.
var (
	Version = "dev"
	Commit  = ""
)

// VersionCmd prints the build version.
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if Commit != "" {
				cmd.Printf("%s (%s, %s)\n", Version, Commit, runtime.Version())
				return
			}
			cmd.Printf("%s (%s)\n", Version, runtime.Version())
		},
	}
}
