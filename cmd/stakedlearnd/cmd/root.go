package cmd

import (
	"github.com/spf13/cobra"

	"github.com/stakedlearn/stakedlearn/app"
	"github.com/stakedlearn/stakedlearn/x/academy/client/cli"
)

const (
	flagHome      = "home"
	flagChainID   = "chain-id"
	flagAdmin     = "admin"
	flagLogLevel  = "log-level"
	flagLogFormat = "log-format"
	flagAPIPort   = "api-port"
	flagOverwrite = "overwrite"
	flagOutput    = "output"
	flagTTL       = "ttl"
)

// NewRootCmd creates a new root command for stakedlearnd. It is called once in
// the main function.
func NewRootCmd() *cobra.Command {
	// Ensure SDK bech32 prefixes are configured prior to CLI usage.
	app.SetConfig()

	rootCmd := &cobra.Command{
		Use:   "stakedlearnd",
		Short: "Staked learning escrow daemon",
		Long: `stakedlearnd runs the staked learning escrow: students lock a stake when they
enroll in a course and get it back with the course reward once they complete it.
Stakes of students who do not finish before the course deadline go to the instructor.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// set the default command outputs
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())
			return nil
		},
	}

	rootCmd.PersistentFlags().String(flagHome, app.DefaultNodeHome, "directory for config and data")

	rootCmd.AddCommand(
		InitCmd(),
		AddGenesisAccountCmd(),
		StartCmd(),
		ExportCmd(),
		TokenCmd(),
		KeysCmd(),
		ConfigCmd(),
		VersionCmd(),
		queryCommand(),
		txCommand(),
	)

	return rootCmd
}

func queryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "query",
		Aliases:                    []string{"q"},
		Short:                      "Querying subcommands",
		SuggestionsMinimumDistance: 2,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(cli.GetQueryCmd())
	return cmd
}

func txCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "tx",
		Short:                      "Transactions subcommands",
		SuggestionsMinimumDistance: 2,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(cli.GetTxCmd())
	return cmd
}

func homeDir(cmd *cobra.Command) (string, error) {
	return cmd.Flags().GetString(flagHome)
}
