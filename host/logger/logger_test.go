package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
)

func TestSetWriterEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	SetWriter(&buf)
	defer SetConsoleWriter(os.Stderr)
	SetVerbose(false)

	Log().Debug().Msg("hidden")
	Log().Info().Int("sample", 3).Msg("batch")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("Expected one line at info level, got %q", buf.String())
	}
	var rec map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("Expected JSON, got %q: %v", lines[0], err)
	}
	if rec["message"] != "batch" || rec["level"] != "info" || rec["sample"] != float64(3) {
		t.Errorf("Unexpected record %v", rec)
	}
	if _, ok := rec["time"]; !ok {
		t.Errorf("Expected a timestamp in %v", rec)
	}
}

func TestSetVerboseShowsDebug(t *testing.T) {
	var buf bytes.Buffer
	SetWriter(&buf)
	defer SetConsoleWriter(os.Stderr)
	SetVerbose(true)
	defer SetVerbose(false)

	Log().Debug().Msg("shown")
	if !strings.Contains(buf.String(), `"message":"shown"`) {
		t.Errorf("Expected debug line, got %q", buf.String())
	}
}
