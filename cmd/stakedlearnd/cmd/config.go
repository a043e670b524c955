package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/stakedlearn/stakedlearn/api"
	"github.com/stakedlearn/stakedlearn/app"
	"github.com/stakedlearn/stakedlearn/app/health"
	"github.com/stakedlearn/stakedlearn/app/telemetry"
	"github.com/stakedlearn/stakedlearn/indexer"
)

const (
	// EnvPrefix prefixes every environment override, e.g. STAKEDLEARN_API_PORT.
	EnvPrefix = "STAKEDLEARN"

	configDir      = "config"
	dataDir        = "data"
	configFileName = "config.toml"
	genesisFile    = "genesis.json"
)

// Indexer backends
const (
	IndexerNone     = "none"
	IndexerMemory   = "memory"
	IndexerPostgres = "postgres"
)

// Config is the daemon configuration read from <home>/config/config.toml,
// STAKEDLEARN_* environment variables and flags.
type Config struct {
	LogLevel  string `mapstructure:"log-level"`
	LogFormat string `mapstructure:"log-format"`
	DBBackend string `mapstructure:"db-backend"`

	Node      app.Config       `mapstructure:"node"`
	API       api.Config       `mapstructure:"api"`
	Health    health.Config    `mapstructure:"health"`
	Telemetry telemetry.Config `mapstructure:"telemetry"`
	Indexer   IndexerConfig    `mapstructure:"indexer"`
}

// IndexerConfig selects where committed receipts are exported.
type IndexerConfig struct {
	Backend     string                 `mapstructure:"backend"`
	MemoryLimit int                    `mapstructure:"memory-limit"`
	Postgres    indexer.PostgresConfig `mapstructure:"postgres"`
}

// DefaultConfig returns the configuration of a fresh devnet node.
func DefaultConfig() Config {
	apiCfg := api.DefaultConfig()
	return Config{
		LogLevel:  "info",
		LogFormat: "json",
		DBBackend: "goleveldb",
		Node:      app.DefaultConfig(),
		API:       *apiCfg,
		Health:    health.DefaultConfig(),
		Telemetry: telemetry.DefaultConfig(),
		Indexer: IndexerConfig{
			Backend:     IndexerMemory,
			MemoryLimit: 10000,
			Postgres: indexer.PostgresConfig{
				MaxConnections: 10,
				MaxIdle:        5,
				ConnMaxLife:    time.Hour,
			},
		},
	}
}

// setDefaults registers every key so that environment overrides are seen by
// Unmarshal even when the config file omits them.
func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("log-level", cfg.LogLevel)
	v.SetDefault("log-format", cfg.LogFormat)
	v.SetDefault("db-backend", cfg.DBBackend)

	v.SetDefault("node.chain-id", cfg.Node.ChainID)
	v.SetDefault("node.admin", cfg.Node.Admin)
	v.SetDefault("node.block-interval", cfg.Node.BlockInterval)
	v.SetDefault("node.check-invariants", cfg.Node.CheckInvariants)

	v.SetDefault("api.host", cfg.API.Host)
	v.SetDefault("api.port", cfg.API.Port)
	v.SetDefault("api.jwt-secret", cfg.API.JWTSecret)
	v.SetDefault("api.token-ttl", cfg.API.TokenTTL)
	v.SetDefault("api.cors-origins", cfg.API.CORSOrigins)
	v.SetDefault("api.rate-limit-rps", cfg.API.RateLimitRPS)
	v.SetDefault("api.rate-limit-burst", cfg.API.RateLimitBurst)
	v.SetDefault("api.max-request-size", cfg.API.MaxRequestSize)
	v.SetDefault("api.read-timeout", cfg.API.ReadTimeout)
	v.SetDefault("api.write-timeout", cfg.API.WriteTimeout)
	v.SetDefault("api.request-timeout", cfg.API.RequestTimeout)
	v.SetDefault("api.shutdown-timeout", cfg.API.ShutdownTimeout)
	v.SetDefault("api.enable-faucet", cfg.API.EnableFaucet)

	v.SetDefault("health.max-block-stall", cfg.Health.MaxBlockStall)
	v.SetDefault("health.cache-duration", cfg.Health.CacheDuration)

	v.SetDefault("telemetry.enabled", cfg.Telemetry.Enabled)
	v.SetDefault("telemetry.otlp-endpoint", cfg.Telemetry.OTLPEndpoint)
	v.SetDefault("telemetry.sample-rate", cfg.Telemetry.SampleRate)
	v.SetDefault("telemetry.environment", cfg.Telemetry.Environment)
	v.SetDefault("telemetry.prometheus-enabled", cfg.Telemetry.PrometheusEnabled)

	v.SetDefault("indexer.backend", cfg.Indexer.Backend)
	v.SetDefault("indexer.memory-limit", cfg.Indexer.MemoryLimit)
	v.SetDefault("indexer.postgres.url", cfg.Indexer.Postgres.URL)
	v.SetDefault("indexer.postgres.max-connections", cfg.Indexer.Postgres.MaxConnections)
	v.SetDefault("indexer.postgres.max-idle", cfg.Indexer.Postgres.MaxIdle)
	v.SetDefault("indexer.postgres.conn-max-life", cfg.Indexer.Postgres.ConnMaxLife)
}

// newViper creates a viper instance reading <home>/config/config.toml and
// STAKEDLEARN_* environment variables.
func newViper(home string) *viper.Viper {
	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetConfigFile(configFilePath(home))
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig reads the configuration of home. A missing config file is not
// an error: defaults and the environment still apply.
func LoadConfig(home string, flags *pflag.FlagSet) (Config, error) {
	v := newViper(home)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}
	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return Config{}, err
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// flagKeys maps command flags to the config keys they override.
var flagKeys = map[string]string{
	flagChainID:   "node.chain-id",
	flagAdmin:     "node.admin",
	flagLogLevel:  "log-level",
	flagLogFormat: "log-format",
	flagAPIPort:   "api.port",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

// WriteConfig writes cfg as <home>/config/config.toml.
func WriteConfig(home string, cfg Config) error {
	if err := os.MkdirAll(filepath.Join(home, configDir), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	setDefaults(v, cfg)
	// Defaults are not written; copy them into the config layer.
	for _, key := range v.AllKeys() {
		val := v.Get(key)
		if d, ok := val.(time.Duration); ok {
			val = d.String()
		}
		v.Set(key, val)
	}
	if err := v.WriteConfigAs(configFilePath(home)); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return os.Chmod(configFilePath(home), 0o600)
}

// NewLogger builds the root logger of the daemon.
func NewLogger(out io.Writer, level, format string) (log.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	opts := []log.Option{log.LevelOption(lvl)}
	switch format {
	case "json":
		opts = append(opts, log.OutputJSONOption())
	case "plain":
		opts = append(opts, log.ColorOption(false))
	default:
		return nil, fmt.Errorf("invalid log format %q: expected json or plain", format)
	}
	return log.NewLogger(out, opts...), nil
}

func configFilePath(home string) string {
	return filepath.Join(home, configDir, configFileName)
}

func genesisFilePath(home string) string {
	return filepath.Join(home, configDir, genesisFile)
}
