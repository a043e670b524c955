package cmd

import (
	"encoding/json"
	"fmt"

	"cosmossdk.io/log"
	"github.com/spf13/cobra"

	"github.com/stakedlearn/stakedlearn/app"
)

// ExportCmd returns the command that dumps the committed state as a genesis file.
func ExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the committed state as genesis JSON",
		Long: `Export balances and academy state at the last committed height. The node
must be stopped. The output can be used as the genesis of a new chain.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			home, err := homeDir(cmd)
			if err != nil {
				return err
			}
			cfg, err := LoadConfig(home, cmd.Flags())
			if err != nil {
				return err
			}
			// receipts are not re-indexed on export
			cfg.Indexer.Backend = IndexerNone

			runtime, err := openApp(cmd.Context(), log.NewNopLogger(), home, cfg)
			if err != nil {
				return err
			}
			defer runtime.Close()

			if !runtime.Initialized() {
				return fmt.Errorf("no committed state in %s", home)
			}
			genesis, err := runtime.ExportGenesis(cmd.Context())
			if err != nil {
				return err
			}

			output, _ := cmd.Flags().GetString(flagOutput)
			if output != "" {
				if err := app.WriteGenesisFile(output, genesis); err != nil {
					return err
				}
				cmd.PrintErrf("Exported height %d to %s\n", runtime.LastCommitID().Version, output)
				return nil
			}

			bz, err := json.MarshalIndent(genesis, "", "  ")
			if err != nil {
				return err
			}
			cmd.Println(string(bz))
			return nil
		},
	}

	cmd.Flags().String(flagOutput, "", "write the genesis to this file instead of stdout")
	return cmd
}
