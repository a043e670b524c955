package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/stakedlearn/stakedlearn/api"
)

// TokenCmd returns the command that issues an API caller token signed with the
// configured secret.
func TokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token [address]",
		Short: "Issue an API token acting as address",
		Long: `Issue an API token acting as address. Anyone holding the token can act as that
account through the HTTP API, so hand it only to the account owner.

Example:
  export STAKEDLEARN_TOKEN=$(stakedlearnd token learn1...)
  stakedlearnd tx academy enroll 1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := homeDir(cmd)
			if err != nil {
				return err
			}
			cfg, err := LoadConfig(home, nil)
			if err != nil {
				return err
			}
			if cfg.API.JWTSecret == "" {
				return fmt.Errorf("api.jwt-secret is not configured in %s", configFilePath(home))
			}

			ttl, _ := cmd.Flags().GetDuration(flagTTL)
			if ttl == 0 {
				ttl = cfg.API.TokenTTL
			}

			token, err := api.NewAuthService([]byte(cfg.API.JWTSecret), ttl).GenerateToken(args[0])
			if err != nil {
				return err
			}
			cmd.Println(token)
			return nil
		},
	}

	cmd.Flags().Duration(flagTTL, 0, "token lifetime (defaults to api.token-ttl)")
	return cmd
}

// ConfigCmd returns the command that prints the effective configuration.
func ConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config [key]",
		Short: "Print the effective configuration, or a single key",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := homeDir(cmd)
			if err != nil {
				return err
			}
			v := newViper(home)
			if fileExists(configFilePath(home)) {
				if err := v.ReadInConfig(); err != nil {
					return fmt.Errorf("failed to read config: %w", err)
				}
			}

			if len(args) == 1 {
				if !v.IsSet(args[0]) {
					return fmt.Errorf("unknown config key %q", args[0])
				}
				s, err := cast.ToStringE(v.Get(args[0]))
				if err != nil {
					s = fmt.Sprint(v.Get(args[0]))
				}
				cmd.Println(s)
				return nil
			}

			keys := v.AllKeys()
			sort.Strings(keys)
			for _, key := range keys {
				if key == "api.jwt-secret" {
					continue
				}
				value := v.Get(key)
				if s, err := cast.ToStringE(value); err == nil {
					cmd.Printf("%s = %s\n", key, s)
				} else {
					cmd.Printf("%s = %v\n", key, cast.ToStringSlice(value))
				}
			}
			return nil
		},
	}
}
