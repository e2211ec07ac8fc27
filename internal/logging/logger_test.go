package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/agbru/friedmann/internal/cosmo"
	apperrors "github.com/agbru/friedmann/internal/errors"
)

// decodeEntry parses the single JSON line written by a ZerologAdapter.
func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, buf.String())
	}
	return entry
}

func TestZerologAdapter_SolveEntries(t *testing.T) {
	t.Parallel()
	integErr := apperrors.IntegrationError{Direction: "backward", Step: 812, T: -0.91, A: 3e-4, Cause: cosmo.ErrNonFinite}

	tests := []struct {
		name  string
		log   func(Logger)
		level string
		msg   string
		want  map[string]any
	}{
		{
			name: "solve done",
			log: func(l Logger) {
				l.Debug("solve done",
					String("request_id", "5b0d8f7e-3c1a-4f0e-9d2b-0a1c2e3f4a5b"),
					String("model", "lcdm"),
					Int("steps", 14250),
					Float64("epsilon", 1e-3))
			},
			level: "debug",
			msg:   "solve done",
			want: map[string]any{
				"request_id": "5b0d8f7e-3c1a-4f0e-9d2b-0a1c2e3f4a5b",
				"model":      "lcdm",
				"steps":      14250.0,
				"epsilon":    1e-3,
			},
		},
		{
			name: "truncated walk",
			log: func(l Logger) {
				l.Warn("integration truncated", String("model", "wcdm"), Uint64("max_steps", 2_000_000))
			},
			level: "warn",
			msg:   "integration truncated",
			want:  map[string]any{"model": "wcdm", "max_steps": 2e6},
		},
		{
			name:  "failed solve",
			log:   func(l Logger) { l.Error("solve failed", integErr, String("model", "closed")) },
			level: "error",
			msg:   "solve failed",
			want:  map[string]any{"model": "closed", "error": integErr.Error()},
		},
		{
			name: "server lifecycle",
			log: func(l Logger) {
				l.Info("server listening", String("addr", "127.0.0.1:8080"), Field{Key: "tls", Value: false})
			},
			level: "info",
			msg:   "server listening",
			want:  map[string]any{"addr": "127.0.0.1:8080", "tls": false},
		},
		{
			name:  "watch reload error",
			log:   func(l Logger) { l.Info("reload skipped", Err(context.DeadlineExceeded)) },
			level: "info",
			msg:   "reload skipped",
			want:  map[string]any{"error": "context deadline exceeded"},
		},
		{
			name:  "duration field",
			log:   func(l Logger) { l.Info("calibration step", Field{Key: "elapsed", Value: 1500 * time.Millisecond}) },
			level: "info",
			msg:   "calibration step",
			want:  map[string]any{"elapsed": 1500.0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			tt.log(NewLogger(&buf, "server"))

			entry := decodeEntry(t, &buf)
			if entry["level"] != tt.level {
				t.Errorf("level = %v, want %s", entry["level"], tt.level)
			}
			if entry["message"] != tt.msg {
				t.Errorf("message = %v, want %s", entry["message"], tt.msg)
			}
			if entry["component"] != "server" {
				t.Errorf("component = %v, want server", entry["component"])
			}
			if _, ok := entry["time"]; !ok {
				t.Error("missing timestamp")
			}
			for k, v := range tt.want {
				if entry[k] != v {
					t.Errorf("%s = %#v, want %#v", k, entry[k], v)
				}
			}
		})
	}
}

func TestZerologAdapter_LevelFilter(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l := NewZerologAdapter(zerolog.New(&buf).Level(zerolog.WarnLevel))

	l.Debug("solve done", String("model", "eds"))
	l.Info("server listening")
	if buf.Len() != 0 {
		t.Fatalf("entries below warn were written: %s", buf.String())
	}
	l.Warn("integration truncated", String("model", "eds"))
	if !strings.Contains(buf.String(), `"model":"eds"`) {
		t.Errorf("warn entry missing: %s", buf.String())
	}
}

func TestZerologAdapter_PrintfPrintln(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l := NewLogger(&buf, "repl")

	l.Printf("set %s = %g", "omega_m", 0.3)
	l.Println("solved", "lcdm", 2)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], `"message":"set omega_m = 0.3"`) {
		t.Errorf("Printf line: %s", lines[0])
	}
	if !strings.Contains(lines[1], `"message":"solved lcdm 2"`) {
		t.Errorf("Println line: %s", lines[1])
	}
}

func TestStdLoggerAdapter(t *testing.T) {
	t.Parallel()
	integErr := apperrors.IntegrationError{Direction: "forward", Step: 3, T: 0.2, A: 1.1, Cause: cosmo.ErrNonFinite}

	tests := []struct {
		name string
		log  func(Logger)
		want string
	}{
		{"info without fields", func(l Logger) { l.Info("server stopped") }, "[INFO] server stopped\n"},
		{"debug with fields", func(l Logger) { l.Debug("solve done", String("model", "milne"), Int("steps", 42)) }, "[DEBUG] solve done model=milne steps=42\n"},
		{"warn", func(l Logger) { l.Warn("integration truncated", String("model", "bounce")) }, "[WARN] integration truncated model=bounce\n"},
		{"error", func(l Logger) { l.Error("solve failed", integErr, String("request_id", "r-1")) },
			fmt.Sprintf("[ERROR] solve failed: %v request_id=r-1\n", integErr)},
		{"printf", func(l Logger) { l.Printf("age=%.3f", 0.9637) }, "age=0.964\n"},
		{"println", func(l Logger) { l.Println("eds", 0.5) }, "eds 0.5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			tt.log(NewStdLoggerAdapter(log.New(&buf, "", 0)))
			if buf.String() != tt.want {
				t.Errorf("got %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestNopLogger(t *testing.T) {
	t.Parallel()
	var l Logger = NewNopLogger()
	l.Info("ignored", String("model", "lcdm"))
	l.Error("ignored", cosmo.ErrNonFinite)
	l.Println("ignored")
}

var (
	_ Logger = (*ZerologAdapter)(nil)
	_ Logger = (*StdLoggerAdapter)(nil)
)
