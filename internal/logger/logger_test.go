package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		" warn ":  slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}

	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLogger_WithAndLevel(t *testing.T) {
	var buf bytes.Buffer

	log := NewLoggerWithWriter("info", &buf)
	child := log.With("search_id", "abc")

	child.Debug("hidden")
	child.Info("partition fetched", "partition", "78701", "records", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug record written at info level")
	}

	if !strings.Contains(out, "search_id=abc") || !strings.Contains(out, "partition=78701") {
		t.Errorf("missing attributes in output: %s", out)
	}

	log.SetLevel("debug")

	if !child.Enabled(slog.LevelDebug) {
		t.Error("SetLevel on the parent should apply to children")
	}
}
