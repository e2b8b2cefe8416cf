package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
)

func TestNew_WritesJSONWithFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(Options{Level: LevelInfo, Output: &buf})

	logger.Warn("row skipped", "line", 7, "error", errors.New("bad date"))
	logger.Debug("not written")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("unexpected line count: got=%d want=1 (%q)", len(lines), buf.String())
	}

	var entry map[string]any
	if err := sonic.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if entry["msg"] != "row skipped" {
		t.Fatalf("unexpected msg: %v", entry["msg"])
	}
	if entry["level"] != "WARN" {
		t.Fatalf("unexpected level: %v", entry["level"])
	}
	if entry["error"] != "bad date" {
		t.Fatalf("unexpected error field: %v", entry["error"])
	}
	if got, _ := entry["line"].(float64); got != 7 {
		t.Fatalf("unexpected line field: %v", entry["line"])
	}
}

func TestLogger_ContextWithoutSpanOmitsTraceIDs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(Options{Level: LevelDebug, Output: &buf}).With("component", "test")
	logger.InfoContext(context.Background(), "hello")

	if strings.Contains(buf.String(), "trace_id") {
		t.Fatalf("did not expect trace_id without a span: %s", buf.String())
	}
	if !strings.Contains(buf.String(), `"component":"test"`) {
		t.Fatalf("expected inherited field in %s", buf.String())
	}
}

func TestZapFields_OddArgs(t *testing.T) {
	t.Parallel()

	fields := zapFields([]any{"a", 1, "dangling"})
	if len(fields) != 2 {
		t.Fatalf("unexpected field count: got=%d want=2", len(fields))
	}
	if fields[1].Key != "dangling" {
		t.Fatalf("unexpected dangling key: %s", fields[1].Key)
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	if ParseFormat(" Console ") != FormatConsole {
		t.Fatalf("expected console format")
	}
	if ParseFormat("whatever") != FormatJSON {
		t.Fatalf("expected json fallback")
	}
}

func TestNilLoggerFallsBackToDefault(t *testing.T) {
	var logger *Logger
	logger.Info("must not panic")
	if logger.With("k", "v") == nil {
		t.Fatalf("expected non-nil logger from nil receiver")
	}
}
