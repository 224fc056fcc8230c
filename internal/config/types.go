// Package config provides configuration types for the chatbot.
package config

import "time"

// Config represents the main chatbot configuration.
type Config struct {
	User   UserConfig   `toml:"user"`
	Engine EngineConfig `toml:"engine"`
	Paths  PathsConfig  `toml:"paths"`
	Remote RemoteConfig `toml:"remote"`
	Log    LogConfig    `toml:"log"`
}

// UserConfig contains user preferences.
type UserConfig struct {
	Timezone string `toml:"timezone"` // IANA name or "Local"
}

// EngineConfig tunes the classification pipeline.
type EngineConfig struct {
	Threshold     float64  `toml:"threshold"`      // minimum classifier score kept as a candidate
	MaxCandidates int      `toml:"max_candidates"` // more candidates than this is "too ambiguous"
	TurnTimeout   Duration `toml:"turn_timeout"`
	MaxMessageLen int      `toml:"max_message_len"`
}

// PathsConfig contains file path settings.
type PathsConfig struct {
	DataDir  string `toml:"data_dir"`
	Database string `toml:"database"`
	Catalog  string `toml:"catalog"` // empty selects the embedded catalog
	Model    string `toml:"model"`   // empty selects the pattern scorer
}

// RemoteConfig configures the joke and dictionary APIs.
type RemoteConfig struct {
	JokeURL           string   `toml:"joke_url"`
	DictionaryURL     string   `toml:"dictionary_url"`
	JokeTimeout       Duration `toml:"joke_timeout"`
	DictionaryTimeout Duration `toml:"dictionary_timeout"`
	Proxy             string   `toml:"proxy"` // optional SOCKS5 host:port
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // console, json
}

// LogFormat selects the zap encoder.
type LogFormat string

const (
	LogFormatConsole LogFormat = "console"
	LogFormatJSON    LogFormat = "json"
)

// Duration is a time.Duration that reads and writes TOML strings like "3s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}
