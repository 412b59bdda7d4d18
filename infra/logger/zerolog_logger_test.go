package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZerologLoggerMethods(t *testing.T) {
	assert.NoError(t, os.Setenv("APP_ENV", "dev"))
	defer func() { assert.NoError(t, os.Unsetenv("APP_ENV")) }()
	l := NewZerologLogger("test")
	if l == nil {
		t.Fatalf("nil logger")
	}
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"k": "v"})
	l.Infof("info %s", "test")
	l.Warnf("warn")
	l.Errorf("error")
}

func TestZerologLoggerServiceAndComponentFields(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("EVNAV_LOG_LEVEL", "")
	var buf bytes.Buffer
	l := newZerologLogger("orchestrator", &buf)
	l.Infof("ranked %d stations", 5)
	out := buf.String()
	assert.Contains(t, out, `"service":"evnav"`)
	assert.Contains(t, out, `"component":"orchestrator"`)
	assert.Contains(t, out, "ranked 5 stations")
}

func TestZerologLoggerLevelGate(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("EVNAV_LOG_LEVEL", "")
	var buf bytes.Buffer
	l := newZerologLogger("orchestrator", &buf)
	l.Debugw("scored station", map[string]any{"station_id": "ktm-thamel-01"})
	assert.Empty(t, buf.String(), "debug suppressed at the default info level")

	buf.Reset()
	t.Setenv("EVNAV_LOG_LEVEL", "debug")
	l = newZerologLogger("orchestrator", &buf)
	l.Debugw("scored station", map[string]any{"station_id": "ktm-thamel-01"})
	assert.Contains(t, buf.String(), `"station_id":"ktm-thamel-01"`)

	buf.Reset()
	t.Setenv("EVNAV_LOG_LEVEL", "error")
	l = newZerologLogger("orchestrator", &buf)
	l.Warnf("slow scoring pass")
	assert.Empty(t, buf.String(), "warn suppressed at the error level")
}
