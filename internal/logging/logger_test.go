package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesAtOrAboveLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelInfo, Output: &buf, Enabled: true})

	l.Debugw("hidden")
	l.Infow("shown", "bitrate_bps", 500000)
	_ = l.Sync()

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message written at info level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "500000") {
		t.Errorf("info message missing: %q", out)
	}
}

func TestNewDisabled(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelDebug, Output: &buf, Enabled: false})
	l.Errorw("dropped")
	if buf.Len() != 0 {
		t.Errorf("disabled logger wrote %q", buf.String())
	}
}

func TestGlobalHelpers(t *testing.T) {
	prev := Global()
	defer SetGlobal(prev)

	var buf bytes.Buffer
	Init(LevelDebug, &buf)
	Debug("gate decision", "allowed", true)
	Warn("limit table inconsistent")
	_ = Global().Sync()

	out := buf.String()
	if !strings.Contains(out, "gate decision") || !strings.Contains(out, "limit table inconsistent") {
		t.Errorf("global helpers output = %q", out)
	}
}

func TestWithPrefix(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelInfo, Output: &buf, Enabled: true, JSON: true}).WithPrefix("replay")
	l.Infow("step")
	_ = l.Sync()
	if !strings.Contains(buf.String(), `"logger":"replay"`) {
		t.Errorf("prefixed output = %q", buf.String())
	}
}

func TestSetup(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs", "runs")

	l, err := Setup(dir, true, false)
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	l.Debugw("verbose line")
	if err := l.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(l.FilePath())
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "resgate starting") || !strings.Contains(string(data), "verbose line") {
		t.Errorf("log file contents = %q", data)
	}
}

func TestSetupNoLog(t *testing.T) {
	l, err := Setup(t.TempDir(), false, true)
	if err != nil || l != nil {
		t.Errorf("Setup(noLog) = %v, %v; want nil, nil", l, err)
	}
	if err := l.Close(); err != nil {
		t.Errorf("nil Close() error = %v", err)
	}
	if l.FilePath() != "" {
		t.Error("nil FilePath() should be empty")
	}
}
