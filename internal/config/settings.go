package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// DefaultPath is the settings file read when ARENA_CONFIG is not set.
const DefaultPath = "arena.toml"

// Settings holds runtime options that are not gameplay rules.
type Settings struct {
	TickRate      int    `toml:"tick_rate"`
	HighScorePath string `toml:"highscore_path"`
	LogLevel      string `toml:"log_level"`
	Seed          int64  `toml:"seed"` // 0 seeds from the clock

	SSH SSHSettings `toml:"ssh"`
	Web WebSettings `toml:"web"`

	// Warnings lists keys present in the file that no setting consumes.
	Warnings []string `toml:"-"`
}

// SSHSettings configures cmd/ssh.
type SSHSettings struct {
	Host        string `toml:"host"`
	Port        string `toml:"port"`
	HostKeyPath string `toml:"host_key"`
}

// WebSettings configures cmd/web.
type WebSettings struct {
	Host        string `toml:"host"`
	Port        string `toml:"port"`
	DisplayHost string `toml:"display_host"` // SSH host shown on the landing page
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Settings {
	return Settings{
		TickRate:      DefaultTickRate,
		HighScorePath: "highscore.toml",
		LogLevel:      "info",
		SSH: SSHSettings{
			Host:        "::",
			Port:        "2222",
			HostKeyPath: "/app/keys/host_key",
		},
		Web: WebSettings{
			Host:        "0.0.0.0",
			Port:        "8080",
			DisplayHost: "your-server.com",
		},
	}
}

// Load reads settings from the file named by ARENA_CONFIG (or DefaultPath),
// then applies environment overrides. A missing file is not an error.
func Load() (Settings, error) {
	return LoadFromPath(GetEnv("ARENA_CONFIG", DefaultPath))
}

// LoadFromPath reads settings from path, then applies environment overrides.
func LoadFromPath(path string) (Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s := Defaults()
			if err := s.applyEnv(); err != nil {
				return Settings{}, err
			}
			return s, s.validate()
		}
		return Settings{}, fmt.Errorf("failed to open settings file: %w", err)
	}
	defer f.Close()

	s, err := LoadFromReader(f)
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// LoadFromReader decodes TOML settings layered over the defaults, then
// applies environment overrides.
func LoadFromReader(r io.Reader) (Settings, error) {
	s := Defaults()
	md, err := toml.NewDecoder(r).Decode(&s)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to decode settings: %w", err)
	}
	for _, key := range md.Undecoded() {
		s.Warnings = append(s.Warnings, fmt.Sprintf("unknown setting %q", key.String()))
	}
	if err := s.applyEnv(); err != nil {
		return Settings{}, err
	}
	return s, s.validate()
}

func (s *Settings) applyEnv() error {
	tickRate, err := GetEnvInt("ARENA_TICK_RATE", int64(s.TickRate))
	if err != nil {
		return err
	}
	s.TickRate = int(tickRate)

	seed, err := GetEnvInt("ARENA_SEED", s.Seed)
	if err != nil {
		return err
	}
	s.Seed = seed

	s.HighScorePath = GetEnv("ARENA_HIGHSCORE", s.HighScorePath)
	s.LogLevel = GetEnv("ARENA_LOG_LEVEL", s.LogLevel)
	s.SSH.Host = GetEnv("SSH_HOST", s.SSH.Host)
	s.SSH.Port = GetEnv("SSH_PORT", s.SSH.Port)
	s.SSH.HostKeyPath = GetEnv("SSH_HOST_KEY", s.SSH.HostKeyPath)
	s.Web.Host = GetEnv("WEB_HOST", s.Web.Host)
	s.Web.Port = GetEnv("WEB_PORT", s.Web.Port)
	s.Web.DisplayHost = GetEnv("SSH_DISPLAY_HOST", s.Web.DisplayHost)
	return nil
}

func (s *Settings) validate() error {
	if s.TickRate <= 0 || s.TickRate > 1000 {
		return fmt.Errorf("tick_rate must be in (0, 1000], got %d", s.TickRate)
	}
	if _, err := log.ParseLevel(strings.ToLower(s.LogLevel)); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", s.LogLevel, err)
	}
	return nil
}

// TickInterval returns the fixed simulation step.
func (s Settings) TickInterval() time.Duration {
	return time.Second / time.Duration(s.TickRate)
}

// Level returns the parsed log level, defaulting to info.
func (s Settings) Level() log.Level {
	lvl, err := log.ParseLevel(strings.ToLower(s.LogLevel))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// NewLogger builds the process logger for the given settings.
func (s Settings) NewLogger(w io.Writer, prefix string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           s.Level(),
		Prefix:          prefix,
		ReportTimestamp: true,
	})
}
