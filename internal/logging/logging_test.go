package logging

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestLoggerFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelWarn)
	l.now = func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }

	l.Infof("hidden %d", 1)
	l.Warnf("shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("expected info line to be filtered: %q", out)
	}
	if !strings.Contains(out, "[WARN] shown 2") {
		t.Fatalf("expected warn line, got %q", out)
	}
	if !strings.HasPrefix(out, "2024-03-01T10:00:00Z") {
		t.Fatalf("expected timestamp prefix, got %q", out)
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	l.Errorf("nothing happens")
	if err := l.Close(); err != nil {
		t.Fatalf("close nil logger: %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("debug") != LevelDebug || ParseLevel("error") != LevelError {
		t.Fatalf("unexpected level mapping")
	}
	if ParseLevel("bogus") != LevelInfo {
		t.Fatalf("expected info fallback")
	}
}
