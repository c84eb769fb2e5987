package logging

import (
	"bytes"
	"encoding/json"
	"log"
	"log/slog"
	"testing"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	line, err := buf.ReadBytes('\n')
	if err != nil {
		t.Fatalf("read log line: %v", err)
	}
	entry := map[string]any{}
	if err := json.Unmarshal(line, &entry); err != nil {
		t.Fatalf("decode log line %q: %v", line, err)
	}
	return entry
}

func TestSetupRenamesFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := setup(buf, "spotwind", "staging")

	logger.Warn("vault low", slog.Uint64("contest", 7))
	entry := decodeLine(t, buf)

	if entry["severity"] != "WARN" {
		t.Fatalf("severity = %v", entry["severity"])
	}
	if entry["message"] != "vault low" {
		t.Fatalf("message = %v", entry["message"])
	}
	if entry["service"] != "spotwind" || entry["env"] != "staging" {
		t.Fatalf("service/env = %v/%v", entry["service"], entry["env"])
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Fatalf("timestamp missing: %v", entry)
	}
	if entry["contest"] != float64(7) {
		t.Fatalf("contest = %v", entry["contest"])
	}
}

func TestSetupOmitsEmptyEnv(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := setup(buf, "spotwind", "  ")

	logger.Info("ready")
	entry := decodeLine(t, buf)
	if _, ok := entry["env"]; ok {
		t.Fatalf("env should be omitted when blank: %v", entry)
	}
}

func TestSetupBridgesStdLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	setup(buf, "spotwind", "")

	log.Print("legacy line")
	entry := decodeLine(t, buf)
	if entry["message"] != "legacy line" {
		t.Fatalf("message = %v", entry["message"])
	}
	if entry["severity"] != "INFO" {
		t.Fatalf("severity = %v", entry["severity"])
	}
	if entry["service"] != "spotwind" {
		t.Fatalf("service = %v", entry["service"])
	}
}
