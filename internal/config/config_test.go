package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/flynn-ai/chatbot/internal/errors"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("CHATBOT_DATA_DIR", "")
	t.Setenv("CHATBOT_LOG_LEVEL", "")
	t.Setenv("CHATBOT_PROXY", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 0.1, cfg.Engine.Threshold)
	assert.Equal(t, 3, cfg.Engine.MaxCandidates)
	assert.Equal(t, 3*time.Second, cfg.Remote.JokeTimeout.Duration)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	t.Setenv("CHATBOT_DATA_DIR", "")
	t.Setenv("CHATBOT_LOG_LEVEL", "")
	t.Setenv("CHATBOT_PROXY", "")

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.User.Timezone = "Asia/Kolkata"
	cfg.Engine.TurnTimeout = Duration{2 * time.Second}
	cfg.Remote.Proxy = "127.0.0.1:1080"
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoad_Partial(t *testing.T) {
	t.Setenv("CHATBOT_DATA_DIR", "")
	t.Setenv("CHATBOT_LOG_LEVEL", "")
	t.Setenv("CHATBOT_PROXY", "")

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[engine]\nmax_candidates = 5\n\n[paths]\ncatalog = \"~/intents.yaml\"\n\n[remote]\ndictionary_timeout = \"750ms\"\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Engine.MaxCandidates)
	assert.Equal(t, 0.1, cfg.Engine.Threshold)
	assert.Equal(t, filepath.Join(home, "intents.yaml"), cfg.Paths.Catalog)
	assert.Equal(t, 750*time.Millisecond, cfg.Remote.DictionaryTimeout.Duration)
}

func TestLoad_Env(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CHATBOT_DATA_DIR", dir)
	t.Setenv("CHATBOT_LOG_LEVEL", "debug")
	t.Setenv("CHATBOT_PROXY", "localhost:9050")

	cfg, err := Load(filepath.Join(dir, "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Paths.DataDir)
	assert.Equal(t, filepath.Join(dir, "side_data.db"), cfg.Paths.Database)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "localhost:9050", cfg.Remote.Proxy)
}

func TestLoad_MissingFileExpandsEnv(t *testing.T) {
	t.Setenv("CHATBOT_DATA_DIR", "~/chatbot-data")
	t.Setenv("CHATBOT_LOG_LEVEL", "")
	t.Setenv("CHATBOT_PROXY", "")

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "chatbot-data"), cfg.Paths.DataDir)
	assert.Equal(t, filepath.Join(home, "chatbot-data", "side_data.db"), cfg.Paths.Database)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"syntax":         "[engine\n",
		"threshold":      "[engine]\nthreshold = 1.5\n",
		"zero threshold": "[engine]\nthreshold = 0.0\n",
		"candidates":     "[engine]\nmax_candidates = 0\n",
		"duration":       "[remote]\njoke_timeout = \"soon\"\n",
		"zero timeout":   "[remote]\njoke_timeout = \"0s\"\n",
		"log format":     "[log]\nformat = \"xml\"\n",
		"message length": "[engine]\nmax_message_len = -1\n",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(data), 0644))

			_, err := Load(path)
			require.Error(t, err)
			assert.Equal(t, apperrors.CodeConfigInvalid, apperrors.GetCode(err))
		})
	}
}

func TestLocation(t *testing.T) {
	cfg := Default()
	assert.Equal(t, time.Local, cfg.Location())

	cfg.User.Timezone = "Not/AZone"
	assert.Equal(t, time.Local, cfg.Location())

	cfg.User.Timezone = "UTC"
	assert.Equal(t, "UTC", cfg.Location().String())
}
