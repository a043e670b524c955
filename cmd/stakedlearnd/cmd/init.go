package cmd

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/stakedlearn/stakedlearn/app"
)

// InitCmd returns a command that writes the node configuration and an empty
// genesis file.
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the node configuration and genesis files",
		Long: `Initialize config/config.toml and config/genesis.json under the home directory.
A random API token secret is generated.

Example:
  stakedlearnd init --chain-id stakedlearn-devnet --admin learn1... --home ~/.stakedlearn
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			home, err := homeDir(cmd)
			if err != nil {
				return err
			}
			chainID, _ := cmd.Flags().GetString(flagChainID)
			admin, _ := cmd.Flags().GetString(flagAdmin)
			overwrite, _ := cmd.Flags().GetBool(flagOverwrite)

			if _, err := sdk.AccAddressFromBech32(admin); err != nil {
				return fmt.Errorf("invalid --%s address: %w", flagAdmin, err)
			}

			genFile := genesisFilePath(home)
			if !overwrite && (fileExists(genFile) || fileExists(configFilePath(home))) {
				return fmt.Errorf("node already initialized in %s (use --%s)", home, flagOverwrite)
			}

			secret, err := newSecret()
			if err != nil {
				return err
			}

			cfg := DefaultConfig()
			cfg.Node.ChainID = chainID
			cfg.Node.Admin = admin
			cfg.API.JWTSecret = secret
			if err := WriteConfig(home, cfg); err != nil {
				return err
			}

			genesis := app.NewDefaultGenesisState(chainID)
			if err := app.WriteGenesisFile(genFile, genesis); err != nil {
				return err
			}

			cmd.Printf("Initialized %s in %s\n", chainID, home)
			return nil
		},
	}

	cmd.Flags().String(flagChainID, app.DefaultConfig().ChainID, "genesis file chain-id")
	cmd.Flags().String(flagAdmin, "", "platform admin account address")
	cmd.Flags().Bool(flagOverwrite, false, "overwrite the existing config and genesis files")
	_ = cmd.MarkFlagRequired(flagAdmin)

	return cmd
}

// AddGenesisAccountCmd returns a command that credits an account in genesis.json.
func AddGenesisAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-genesis-account [address] [amount]",
		Short: "Add a funded account to genesis.json",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := homeDir(cmd)
			if err != nil {
				return err
			}
			if _, err := sdk.AccAddressFromBech32(args[0]); err != nil {
				return fmt.Errorf("invalid address: %w", err)
			}
			amount, ok := math.NewIntFromString(args[1])
			if !ok || !amount.IsPositive() {
				return fmt.Errorf("invalid amount %q", args[1])
			}

			genFile := genesisFilePath(home)
			genesis, err := app.LoadGenesisFile(genFile)
			if err != nil {
				return err
			}
			for _, b := range genesis.Balances {
				if b.Address == args[0] {
					return fmt.Errorf("account %s already exists in genesis", args[0])
				}
			}
			genesis.Balances = append(genesis.Balances, app.GenesisBalance{Address: args[0], Amount: amount})
			if err := genesis.Validate(); err != nil {
				return err
			}
			return app.WriteGenesisFile(genFile, genesis)
		},
	}
}

func newSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
