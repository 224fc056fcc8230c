package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flynn-ai/chatbot/internal/memory"
)

// execute runs the root command against a temporary data dir.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	jsonOut, verbose = false, false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func setupHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CHATBOT_DATA_DIR", dir)
	t.Setenv("CHATBOT_LOG_LEVEL", "error")
	cfgFile = filepath.Join(dir, "config.toml")
	t.Cleanup(func() { cfgFile = "" })
	return dir
}

func TestNotesCommands(t *testing.T) {
	setupHome(t)

	_, err := execute(t, "", "notes", "add", "milk", "buy milk")
	require.NoError(t, err)

	out, err := execute(t, "", "notes", "list", "--json")
	require.NoError(t, err)
	var notes []memory.Note
	require.NoError(t, json.Unmarshal([]byte(out), &notes))
	require.Len(t, notes, 1)
	assert.Equal(t, "milk", notes[0].Title)

	out, err = execute(t, "", "notes", "delete", notes[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, `Deleted "milk"`)

	out, err = execute(t, "", "notes", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No notes.")

	_, err = execute(t, "", "notes", "delete", notes[0].ID)
	assert.Error(t, err)
}

func TestPlacesCommands(t *testing.T) {
	setupHome(t)

	out, err := execute(t, "", "places", "japan")
	require.NoError(t, err)
	assert.Contains(t, out, "Asia/Tokyo")

	_, err = execute(t, "", "places", "add-city", "jp", "Sapporo")
	require.NoError(t, err)

	out, err = execute(t, "", "places", "sapporo")
	require.NoError(t, err)
	assert.Contains(t, out, "JP")

	_, err = execute(t, "", "places", "atlantis")
	assert.Error(t, err)
}

func TestChatSession(t *testing.T) {
	setupHome(t)

	in := "hello\n/note groceries | eggs and flour\n/save-name Ada\n/stats\n/quit\n"
	out, err := execute(t, in, "chat", "--width", "0")
	require.NoError(t, err)
	assert.Contains(t, out, `Saved "groceries".`)
	assert.Contains(t, out, "Nice to meet you, Ada.")
	assert.Contains(t, out, `"turn_count": 1`)

	out, err = execute(t, "", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Notes:    1")
	assert.Contains(t, out, "Name:     Ada")
}

func TestAskAndCatalog(t *testing.T) {
	setupHome(t)

	out, err := execute(t, "", "ask", "--json", "xyzzy plugh")
	require.NoError(t, err)
	assert.Contains(t, out, `"Outcome": "unrecognized"`)

	out, err = execute(t, "", "catalog", "check")
	require.NoError(t, err)
	assert.Contains(t, out, "Catalog:  embedded")
	assert.NotContains(t, out, "Unused handlers")

	out, err = execute(t, "", "catalog", "dump")
	require.NoError(t, err)
	assert.Contains(t, out, "intent: greeting")
}

func TestConfigInit(t *testing.T) {
	setupHome(t)

	out, err := execute(t, "", "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote")

	out, err = execute(t, "", "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")

	out, err = execute(t, "", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "max_candidates = 3")
}
