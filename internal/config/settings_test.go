package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromReader(t *testing.T) {
	content := `
tick_rate = 30
highscore_path = "/var/lib/arena/hs.toml"
log_level = "debug"
seed = 42

[ssh]
port = "2323"

[web]
display_host = "arena.example.com"
`
	s, err := LoadFromReader(strings.NewReader(content))
	require.NoError(t, err)

	assert.Equal(t, 30, s.TickRate)
	assert.Equal(t, "/var/lib/arena/hs.toml", s.HighScorePath)
	assert.Equal(t, log.DebugLevel, s.Level())
	assert.Equal(t, int64(42), s.Seed)
	assert.Equal(t, "2323", s.SSH.Port)
	assert.Equal(t, "::", s.SSH.Host, "unset keys keep their defaults")
	assert.Equal(t, "arena.example.com", s.Web.DisplayHost)
	assert.Empty(t, s.Warnings)
	assert.Equal(t, time.Second/30, s.TickInterval())
}

func TestLoadFromReaderUnknownKeys(t *testing.T) {
	s, err := LoadFromReader(strings.NewReader("tick_rate = 60\nfps = 144\n"))
	require.NoError(t, err)
	require.Len(t, s.Warnings, 1)
	assert.Contains(t, s.Warnings[0], "fps")
}

func TestLoadFromReaderInvalid(t *testing.T) {
	_, err := LoadFromReader(strings.NewReader("tick_rate = \"fast\""))
	assert.Error(t, err)

	_, err = LoadFromReader(strings.NewReader("tick_rate = 0"))
	assert.ErrorContains(t, err, "tick_rate")

	_, err = LoadFromReader(strings.NewReader(`log_level = "loud"`))
	assert.ErrorContains(t, err, "log_level")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ARENA_TICK_RATE", "120")
	t.Setenv("ARENA_HIGHSCORE", "/tmp/hs.toml")
	t.Setenv("SSH_PORT", "4444")

	s, err := LoadFromReader(strings.NewReader("tick_rate = 30"))
	require.NoError(t, err)
	assert.Equal(t, 120, s.TickRate, "environment wins over the file")
	assert.Equal(t, "/tmp/hs.toml", s.HighScorePath)
	assert.Equal(t, "4444", s.SSH.Port)
}

func TestEnvOverrideInvalid(t *testing.T) {
	t.Setenv("ARENA_SEED", "not-a-number")
	_, err := LoadFromReader(strings.NewReader(""))
	assert.ErrorContains(t, err, "ARENA_SEED")
}

func TestLoadFromPathMissingFile(t *testing.T) {
	s, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults().TickRate, s.TickRate)
}

func TestLoadFromPathFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.toml")
	require.NoError(t, os.WriteFile(path, []byte("tick_rate = 50\n"), 0o644))

	s, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 50, s.TickRate)
}

func TestGetEnvInt(t *testing.T) {
	n, err := GetEnvInt("ARENA_TEST_UNSET_VALUE", 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	t.Setenv("ARENA_TEST_VALUE", "12")
	n, err = GetEnvInt("ARENA_TEST_VALUE", 7)
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)
}
