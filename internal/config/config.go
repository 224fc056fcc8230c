// Package config handles chatbot configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	apperrors "github.com/flynn-ai/chatbot/internal/errors"
)

const (
	// DefaultJokeURL is the joke API queried by the make_joke handler.
	DefaultJokeURL = "https://v2.jokeapi.dev/joke/Programming,Miscellaneous,Dark,Spooky?blacklistFlags=nsfw"

	// DefaultDictionaryURL is the dictionary API prefix; the word is appended.
	DefaultDictionaryURL = "https://api.dictionaryapi.dev/api/v2/entries/en/"
)

// Default returns the default configuration.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".chatbot")

	return &Config{
		User: UserConfig{
			Timezone: "Local",
		},
		Engine: EngineConfig{
			Threshold:     0.1,
			MaxCandidates: 3,
			TurnTimeout:   Duration{10 * time.Second},
			MaxMessageLen: 500,
		},
		Paths: PathsConfig{
			DataDir:  dataDir,
			Database: filepath.Join(dataDir, "side_data.db"),
		},
		Remote: RemoteConfig{
			JokeURL:           DefaultJokeURL,
			DictionaryURL:     DefaultDictionaryURL,
			JokeTimeout:       Duration{3 * time.Second},
			DictionaryTimeout: Duration{5 * time.Second},
		},
		Log: LogConfig{
			Level:  "info",
			Format: string(LogFormatConsole),
		},
	}
}

// Load loads the configuration from the given path.
// If the file doesn't exist, returns defaults with env overrides applied.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, apperrors.Wrap(err, apperrors.CodeConfigInvalid, "cannot read config", apperrors.CategorySystem)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeConfigInvalid, "cannot parse config", apperrors.CategoryUser)
		}
	}

	cfg.applyEnv()
	cfg = expandPaths(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves the configuration to the given path.
func (c *Config) Save(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	file, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := toml.NewEncoder(file)
	return encoder.Encode(c)
}

// Validate rejects values the engine cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Engine.Threshold <= 0 || c.Engine.Threshold >= 1:
		return apperrors.User(apperrors.CodeConfigInvalid, fmt.Sprintf("engine.threshold must be in (0,1), got %v", c.Engine.Threshold))
	case c.Engine.MaxCandidates < 1:
		return apperrors.User(apperrors.CodeConfigInvalid, "engine.max_candidates must be positive")
	case c.Engine.MaxMessageLen < 1:
		return apperrors.User(apperrors.CodeConfigInvalid, "engine.max_message_len must be positive")
	case c.Remote.JokeTimeout.Duration <= 0 || c.Remote.DictionaryTimeout.Duration <= 0:
		return apperrors.User(apperrors.CodeConfigInvalid, "remote timeouts must be positive")
	}
	if c.Log.Format != string(LogFormatConsole) && c.Log.Format != string(LogFormatJSON) {
		return apperrors.User(apperrors.CodeConfigInvalid, "log.format must be console or json")
	}
	return nil
}

// Location resolves the configured user timezone.
func (c *Config) Location() *time.Location {
	if c.User.Timezone == "" || strings.EqualFold(c.User.Timezone, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(c.User.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// DefaultPath returns the config file location under the user's home.
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".chatbot", "config.toml")
}

// applyEnv lets a few CHATBOT_* variables override the file.
func (c *Config) applyEnv() {
	if v := os.Getenv("CHATBOT_DATA_DIR"); v != "" {
		c.Paths.DataDir = v
		c.Paths.Database = filepath.Join(v, "side_data.db")
	}
	if v := os.Getenv("CHATBOT_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("CHATBOT_PROXY"); v != "" {
		c.Remote.Proxy = v
	}
}

// expandPaths expands ~ in paths.
func expandPaths(cfg *Config) *Config {
	cfg.Paths.DataDir = expandHome(cfg.Paths.DataDir)
	cfg.Paths.Database = expandHome(cfg.Paths.Database)
	cfg.Paths.Catalog = expandHome(cfg.Paths.Catalog)
	cfg.Paths.Model = expandHome(cfg.Paths.Model)
	return cfg
}

func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, path[1:])
}
