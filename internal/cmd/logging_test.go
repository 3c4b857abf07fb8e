package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger, closeLog, err := setupLogger("warn", "", &buf)
	require.NoError(t, err)
	defer closeLog()

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "run_id=")
}

func TestSetupLogger_UnknownLevel(t *testing.T) {
	_, _, err := setupLogger("chatty", "", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestSetupLogger_FileAppendsPerRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "run.log")

	for i := 0; i < 2; i++ {
		logger, closeLog, err := setupLogger("info", path, &bytes.Buffer{})
		require.NoError(t, err)
		logger.Info("run")
		closeLog()
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	runID := func(line string) string {
		for _, field := range strings.Fields(line) {
			if strings.HasPrefix(field, "run_id=") {
				return field
			}
		}
		return ""
	}
	assert.NotEmpty(t, runID(lines[0]))
	assert.NotEqual(t, runID(lines[0]), runID(lines[1]))
}
