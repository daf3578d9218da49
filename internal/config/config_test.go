package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/Arabx-yung/trade-bot/internal/errors"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Telegram.PollTimeout)
	assert.Equal(t, "Africa/Lagos", cfg.Journal.Timezone)
	assert.Equal(t, filepath.Join(dir, "trades.db"), cfg.Storage.DBPath)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[telegram]
poll_timeout = 60

[journal]
chat_id = -100123
timezone = "UTC"

[storage]
db_path = "/tmp/custom.db"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.Telegram.PollTimeout)
	assert.Equal(t, int64(-100123), cfg.Journal.ChatID)
	assert.Equal(t, "UTC", cfg.Journal.Timezone)
	assert.Equal(t, "/tmp/custom.db", cfg.Storage.DBPath)
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BOT_TOKEN", "tok-123")
	t.Setenv("JOURNAL_CHAT_ID", "-100999")
	t.Setenv("TRADEBOT_TIMEZONE", "Europe/London")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "tok-123", cfg.Telegram.BotToken)
	assert.Equal(t, int64(-100999), cfg.Journal.ChatID)
	assert.Equal(t, "Europe/London", cfg.Journal.Timezone)
	assert.Equal(t, "Europe/London", cfg.Location().String())
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := &Config{
		Telegram: TelegramConfig{PollTimeout: 30},
		Journal:  JournalConfig{Timezone: "Not/AZone"},
		Storage:  StorageConfig{DBPath: "x.db"},
	}
	assert.ErrorIs(t, cfg.Validate(), errs.ErrConfigInvalid)

	cfg.Journal.Timezone = "UTC"
	assert.NoError(t, cfg.Validate())

	cfg.Telegram.PollTimeout = 500
	assert.Error(t, cfg.Validate())

	cfg.Telegram.PollTimeout = 30
	cfg.Storage.DBPath = ""
	assert.Error(t, cfg.Validate())
}

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := &Config{Journal: JournalConfig{Timezone: "Bad/Zone"}}
	assert.Equal(t, "UTC", cfg.Location().String())
}
