package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riteshkumar/bank-ledger/internal/errors"
)

// clearEnv blanks every key LoadConfig reads so the host environment cannot
// leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
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
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("BANK_ENCRYPTION_KEY", "env-key")
	t.Setenv("BANK_ENCRYPTION_SALT", "env-salt")

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.EncryptionKey)
	assert.Equal(t, "env-salt", cfg.EncryptionSalt)
	assert.Equal(t, KeyPolicyStrict, cfg.KeyPolicy)
	assert.Equal(t, DefaultLogMaxBytes, cfg.LogMaxBytes)
	assert.True(t, cfg.MaskUPI)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
	assert.False(t, cfg.UsingDevelopmentKey)

	assert.Equal(t, os.TempDir(), filepath.Dir(cfg.LogPath))
	assert.True(t, strings.HasPrefix(filepath.Base(cfg.LogPath), "bank_logs_"))
	assert.True(t, strings.HasSuffix(cfg.LogPath, ".txt"))
}

func TestLoadConfig_StrictPolicyRequiresKeyAndSalt(t *testing.T) {
	clearEnv(t)
	t.Setenv("BANK_ENCRYPTION_KEY", "env-key")

	_, err := LoadConfig(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrMissingEncryptionKey)
}

func TestLoadConfig_DevelopmentPolicyFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("BANK_KEY_POLICY", "Development")

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, KeyPolicyDevelopment, cfg.KeyPolicy)
	assert.Equal(t, DevelopmentEncryptionKey, cfg.EncryptionKey)
	assert.Equal(t, DevelopmentEncryptionSalt, cfg.EncryptionSalt)
	assert.True(t, cfg.UsingDevelopmentKey)
}

func TestLoadConfig_UnknownPolicy(t *testing.T) {
	clearEnv(t)
	t.Setenv("BANK_KEY_POLICY", "lenient")

	_, err := LoadConfig(nil)
	assert.True(t, errors.IsValidationError(err))
}

func TestLoadConfig_EnvironmentBeatsKeyFlags(t *testing.T) {
	clearEnv(t)
	t.Setenv("BANK_ENCRYPTION_KEY", "env-key")

	cfg, err := LoadConfig([]string{"--encryption-key", "flag-key", "--encryption-salt", "flag-salt"})
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.EncryptionKey)
	assert.Equal(t, "flag-salt", cfg.EncryptionSalt)
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("BANK_ENCRYPTION_KEY", "env-key")
	t.Setenv("BANK_ENCRYPTION_SALT", "env-salt")
	t.Setenv("BANK_LOG_PATH", "/var/tmp/env.txt")
	t.Setenv("SERVER_PORT", "9000")

	cfg, err := LoadConfig([]string{"--log-path=/var/tmp/flag.txt", "--port=9100"})
	require.NoError(t, err)

	assert.Equal(t, "/var/tmp/flag.txt", cfg.LogPath)
	assert.Equal(t, "9100", cfg.ServerPort)
}

func TestLoadConfig_EnvironmentValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("BANK_ENCRYPTION_KEY", "env-key")
	t.Setenv("BANK_ENCRYPTION_SALT", "env-salt")
	t.Setenv("BANK_LOG_PATH", "/var/tmp/env.txt")
	t.Setenv("BANK_LOG_MAX_BYTES", "0")
	t.Setenv("BANK_LOG_MASK_UPI", "false")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, "/var/tmp/env.txt", cfg.LogPath)
	assert.Equal(t, int64(0), cfg.LogMaxBytes)
	assert.False(t, cfg.MaskUPI)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoadConfig_UnknownFlag(t *testing.T) {
	clearEnv(t)
	_, err := LoadConfig([]string{"--bogus"})
	assert.Error(t, err)
}

func TestDefaultLogPath(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	assert.Equal(t, filepath.Join(os.TempDir(), "bank_logs_1700000000123.txt"), DefaultLogPath(now))
}

func TestSlogLevelFallsBackToInfo(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, Config{LogLevel: "loud"}.SlogLevel())
	assert.Equal(t, slog.LevelWarn, Config{LogLevel: "WARN"}.SlogLevel())
}
