package logger

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed() (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return &Logger{Logger: zap.New(core), config: DefaultConfig()}, logs
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestLogLoadAndEpisode(t *testing.T) {
	l, logs := observed()
	l.LogLoad("flat", 10, 1500*time.Millisecond, nil)
	l.LogEpisode("ep-1", 3, 9, 60, map[string]interface{}{"seed": 7})

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "load_event", entries[0].Message)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "flat", ctx["source"])
	assert.EqualValues(t, 10, ctx["states"])
	assert.EqualValues(t, 1500, ctx["elapsed_ms"])

	ctx = entries[1].ContextMap()
	assert.Equal(t, "ep-1", ctx["episode_id"])
	assert.EqualValues(t, 7, ctx["seed"])
}

func TestLogErrorAndWithFields(t *testing.T) {
	l, logs := observed()
	l.WithFields(map[string]interface{}{"feed": "events"}).LogError(errors.New("boom"), nil)
	entries := logs.FilterMessage("error_event").All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "boom", ctx["error"])
	assert.Equal(t, "events", ctx["feed"])
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "replay.log")
	cfg := DefaultConfig()
	cfg.Outputs = []string{"file"}
	cfg.OutputFile = path
	l, err := New(cfg)
	require.NoError(t, err)
	l.LogLoad("artificial", 11, 0, nil)
	_ = l.Close()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(raw), `"load_event"`), string(raw))
}

func TestNop(t *testing.T) {
	l := Nop()
	l.LogLoad("x", 0, 0, nil)
	assert.NoError(t, l.Close())
}
