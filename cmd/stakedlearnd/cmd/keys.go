package cmd

import (
	"bufio"
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/cosmos/cosmos-sdk/crypto/hd"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/go-bip39"
	"github.com/spf13/cobra"

	"github.com/stakedlearn/stakedlearn/app"
)

const (
	flagMnemonicLength = "mnemonic-length"
	flagNoBackup       = "no-backup"
	flagAccount        = "account"
	flagIndex          = "index"
)

// KeysCmd returns the key derivation commands. Keys are not stored: the
// mnemonic is the only copy of an account's key.
func KeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Generate and recover account addresses from BIP39 mnemonics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(
		NewKeyCmd(),
		RecoverKeyCmd(),
	)
	return cmd
}

// NewKeyCmd generates a fresh mnemonic and prints its address.
func NewKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Generate a new mnemonic and print its account address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mnemonicLength, _ := cmd.Flags().GetInt(flagMnemonicLength)
			noBackup, _ := cmd.Flags().GetBool(flagNoBackup)
			account, _ := cmd.Flags().GetUint32(flagAccount)
			index, _ := cmd.Flags().GetUint32(flagIndex)

			// 12 words = 128 bits, 24 words = 256 bits
			var entropySize int
			switch mnemonicLength {
			case 12:
				entropySize = 128 / 8
			case 24:
				entropySize = 256 / 8
			default:
				return fmt.Errorf("mnemonic length must be 12 or 24 words")
			}

			entropy := make([]byte, entropySize)
			if _, err := rand.Read(entropy); err != nil {
				return fmt.Errorf("failed to generate secure entropy: %w", err)
			}
			mnemonic, err := bip39.NewMnemonic(entropy)
			if err != nil {
				return fmt.Errorf("failed to generate mnemonic: %w", err)
			}

			addr, err := deriveAddress(mnemonic, account, index)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "address: %s\n", addr.String())
			if !noBackup {
				fmt.Fprintf(out, "\n**IMPORTANT** Write this mnemonic phrase in a safe place.\n")
				fmt.Fprintf(out, "It is the only way to recover the account.\n\n")
				fmt.Fprintf(out, "%s\n", mnemonic)
			}
			return nil
		},
	}

	cmd.Flags().Int(flagMnemonicLength, 24, "mnemonic length (12 or 24 words)")
	cmd.Flags().Bool(flagNoBackup, false, "do not print the mnemonic")
	addDerivationFlags(cmd)
	return cmd
}

// RecoverKeyCmd reads a mnemonic from stdin and prints its address.
func RecoverKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recover",
		Short: "Print the account address of a mnemonic read from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			account, _ := cmd.Flags().GetUint32(flagAccount)
			index, _ := cmd.Flags().GetUint32(flagIndex)

			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("failed to read mnemonic: %w", err)
			}
			mnemonic := strings.Join(strings.Fields(line), " ")
			if !bip39.IsMnemonicValid(mnemonic) {
				return fmt.Errorf("invalid mnemonic")
			}

			addr, err := deriveAddress(mnemonic, account, index)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "address: %s\n", addr.String())
			return nil
		},
	}

	addDerivationFlags(cmd)
	return cmd
}

func addDerivationFlags(cmd *cobra.Command) {
	cmd.Flags().Uint32(flagAccount, 0, "account number for HD derivation")
	cmd.Flags().Uint32(flagIndex, 0, "address index number for HD derivation")
}

// deriveAddress derives the secp256k1 account address of mnemonic on the
// stakedlearn coin type.
func deriveAddress(mnemonic string, account, index uint32) (sdk.AccAddress, error) {
	hdPath := hd.CreateHDPath(app.CoinType, account, index)
	derived, err := hd.Secp256k1.Derive()(mnemonic, "", hdPath.String())
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	privKey := hd.Secp256k1.Generate()(derived)
	return sdk.AccAddress(privKey.PubKey().Address()), nil
}
