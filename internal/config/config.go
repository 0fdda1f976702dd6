// Package config resolves process settings once at startup. Values come from
// the environment (and an optional .env file) through viper, with a small set
// of command-line overrides parsed by pflag.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/riteshkumar/bank-ledger/internal/errors"
	"github.com/riteshkumar/bank-ledger/internal/repository"
)

const (
	KeyPolicyStrict      = "strict"
	KeyPolicyDevelopment = "development"

	// Used only under KeyPolicyDevelopment. Anything encrypted with these is
	// readable by anyone holding the source.
	DevelopmentEncryptionKey  = "BankSystemSecretKey2024!"
	DevelopmentEncryptionSalt = "BankSystemSalt2024"

	DefaultLogMaxBytes = repository.DefaultAuditMaxBytes
)

type Config struct {
	EncryptionKey  string `mapstructure:"BANK_ENCRYPTION_KEY"`
	EncryptionSalt string `mapstructure:"BANK_ENCRYPTION_SALT"`
	KeyPolicy      string `mapstructure:"BANK_KEY_POLICY"`
	LogPath        string `mapstructure:"BANK_LOG_PATH"`
	LogMaxBytes    int64  `mapstructure:"BANK_LOG_MAX_BYTES"`
	MaskUPI        bool   `mapstructure:"BANK_LOG_MASK_UPI"`
	ServerPort     string `mapstructure:"SERVER_PORT"`
	LogLevel       string `mapstructure:"LOG_LEVEL"`

	// UsingDevelopmentKey is set when either key or salt fell back to the
	// built-in development values.
	UsingDevelopmentKey bool `mapstructure:"-"`
}

// LoadConfig reads configuration from the environment and args (without the
// program name). The encryption key and salt are taken from the environment
// first, then from their flags, then from the key policy. --log-path and
// --port replace the environment value when given.
func LoadConfig(args []string) (config Config, err error) {
	flagSet := pflag.NewFlagSet("bank-ledger", pflag.ContinueOnError)
	keyFlag := flagSet.String("encryption-key", "", "passphrase used when BANK_ENCRYPTION_KEY is unset")
	saltFlag := flagSet.String("encryption-salt", "", "salt used when BANK_ENCRYPTION_SALT is unset")
	logPathFlag := flagSet.String("log-path", "", "audit log file path")
	portFlag := flagSet.String("port", "", "HTTP listen port")
	if err = flagSet.Parse(args); err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.AddConfigPath(".")
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("BANK_KEY_POLICY", KeyPolicyStrict)
	v.SetDefault("BANK_LOG_MAX_BYTES", DefaultLogMaxBytes)
	v.SetDefault("BANK_LOG_MASK_UPI", true)
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")

	for _, key := range []string{
		"BANK_ENCRYPTION_KEY",
		"BANK_ENCRYPTION_SALT",
		"BANK_KEY_POLICY",
		"BANK_LOG_PATH",
		"BANK_LOG_MAX_BYTES",
		"BANK_LOG_MASK_UPI",
		"SERVER_PORT",
		"LOG_LEVEL",
	} {
		_ = v.BindEnv(key)
	}

	// The .env file is optional.
	if err = v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	config.EncryptionKey = firstNonEmpty(config.EncryptionKey, *keyFlag)
	config.EncryptionSalt = firstNonEmpty(config.EncryptionSalt, *saltFlag)
	if p := strings.TrimSpace(*logPathFlag); p != "" {
		config.LogPath = p
	}
	if p := strings.TrimSpace(*portFlag); p != "" {
		config.ServerPort = p
	}
	if strings.TrimSpace(config.LogPath) == "" {
		config.LogPath = DefaultLogPath(time.Now())
	}

	if err = config.applyKeyPolicy(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// DefaultLogPath names a fresh audit file in the system temp directory.
func DefaultLogPath(now time.Time) string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("bank_logs_%d.txt", now.UnixMilli()))
}

func (c *Config) applyKeyPolicy() error {
	c.KeyPolicy = strings.ToLower(strings.TrimSpace(c.KeyPolicy))

	switch c.KeyPolicy {
	case KeyPolicyStrict:
		if c.EncryptionKey == "" || c.EncryptionSalt == "" {
			return fmt.Errorf("%w: set BANK_ENCRYPTION_KEY and BANK_ENCRYPTION_SALT or use BANK_KEY_POLICY=%s",
				errors.ErrMissingEncryptionKey, KeyPolicyDevelopment)
		}
	case KeyPolicyDevelopment:
		if c.EncryptionKey == "" {
			c.EncryptionKey = DevelopmentEncryptionKey
			c.UsingDevelopmentKey = true
		}
		if c.EncryptionSalt == "" {
			c.EncryptionSalt = DevelopmentEncryptionSalt
			c.UsingDevelopmentKey = true
		}
	default:
		return errors.NewValidationError("BANK_KEY_POLICY", fmt.Sprintf("unknown policy %q", c.KeyPolicy))
	}
	return nil
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
