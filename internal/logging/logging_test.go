package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

// capture installs a JSON handler backed by a buffer so tests can inspect
// emitted records.
func capture(level slog.Level) *bytes.Buffer {
	buf := &bytes.Buffer{}
	InitWithHandler(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: level}))
	return buf
}

func TestComponent_AddsAttribute(t *testing.T) {
	buf := capture(slog.LevelInfo)

	log := Component("codec")
	log.Info("decoded", "records", 3)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log entry: %v", err)
	}
	if entry["component"] != "codec" {
		t.Errorf("expected component=codec, got %v", entry["component"])
	}
	if entry["msg"] != "decoded" {
		t.Errorf("expected msg=decoded, got %v", entry["msg"])
	}
	if entry["records"] != float64(3) {
		t.Errorf("expected records=3, got %v", entry["records"])
	}
}

func TestWith_AttachesAttributes(t *testing.T) {
	buf := capture(slog.LevelInfo)

	log := With("worker", 2)
	log.Info("partial merged")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log entry: %v", err)
	}
	if entry["worker"] != float64(2) {
		t.Errorf("expected worker=2, got %v", entry["worker"])
	}
}

func TestConvenienceFunctions(t *testing.T) {
	buf := capture(slog.LevelDebug)

	Debug("d")
	Info("i")
	Warn("w")
	Error("e")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(lines))
	}
	want := []string{"DEBUG", "INFO", "WARN", "ERROR"}
	for i, line := range lines {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("unmarshal entry %d: %v", i, err)
		}
		if entry["level"] != want[i] {
			t.Errorf("entry %d: expected level %s, got %v", i, want[i], entry["level"])
		}
	}
}

func TestConvenienceFunctions_RespectLevel(t *testing.T) {
	buf := capture(slog.LevelWarn)

	Debug("hidden")
	Info("hidden")
	Warn("visible")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 entry, got %d: %q", len(lines), buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, c := range cases {
		if got := ParseLevel(c.in); got != c.want {
			t.Errorf("ParseLevel(%q): expected %v, got %v", c.in, c.want, got)
		}
	}
}
