package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONWhenNotTTY(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false, false)

	logger.Info("pair synced", "base", "main", "dest", "release-1")
	logger.Debug("hidden")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
	assert.Equal(t, "pair synced", rec["msg"])
	assert.Equal(t, "main", rec["base"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNew_VerboseEnablesDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, true, false)

	logger.Debug("trial merge", "ref", "origin/main")
	assert.Contains(t, buf.String(), "trial merge")
}

func TestSetup_LogFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "autosync.log")
	closer, err := Setup(false, path)
	require.NoError(t, err)

	slog.Info("written to file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestSetup_BadLogFile(t *testing.T) {
	_, err := Setup(false, filepath.Join(t.TempDir(), "missing", "autosync.log"))
	assert.Error(t, err)
}
