package logging_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"whorl/internal/logging"
)

func TestNewWritesConsoleFormatToFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "whorl.log")

	logger, err := logging.New(logging.Options{
		Level:       "debug",
		Format:      "console",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	component := logging.NewComponentLogger(logger, "ingest")
	component.Info("pass complete",
		logging.Int(logging.FieldPass, 2),
		logging.String("source", "templates.txt"),
	)

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(data)
	if !strings.Contains(line, "ingest: pass complete") {
		t.Fatalf("component prefix missing: %q", line)
	}
	if !strings.Contains(line, "pass=2") {
		t.Fatalf("attribute missing: %q", line)
	}
}

func TestNewWritesJSONFormat(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "whorl.log")

	logger, err := logging.New(logging.Options{
		Level:       "info",
		Format:      "json",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("session opened", logging.Int("device_index", 0))

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("parse json log line: %v\nline: %s", err, data)
	}
	if payload["msg"] != "session opened" {
		t.Fatalf("msg = %v", payload["msg"])
	}
	if payload["level"] != "info" {
		t.Fatalf("level = %v", payload["level"])
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatal("ts field missing")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestLevelGating(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "whorl.log")

	logger, err := logging.New(logging.Options{
		Level:       "warn",
		Format:      "console",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("suppressed")
	logger.Warn("surfaced")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if strings.Contains(string(data), "suppressed") {
		t.Fatal("info line should be suppressed at warn level")
	}
	if !strings.Contains(string(data), "surfaced") {
		t.Fatal("warn line missing")
	}
}

func TestCleanupOldLogs(t *testing.T) {
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "whorl-old.log")
	newPath := filepath.Join(dir, "whorl-new.log")
	keptPath := filepath.Join(dir, "whorl-excluded.log")
	for _, path := range []string{oldPath, newPath, keptPath} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	stale := time.Now().AddDate(0, 0, -40)
	for _, path := range []string{oldPath, keptPath} {
		if err := os.Chtimes(path, stale, stale); err != nil {
			t.Fatalf("age %s: %v", path, err)
		}
	}

	logging.CleanupOldLogs(logging.NewNop(), 30, logging.RetentionTarget{
		Dir:     dir,
		Pattern: "whorl-*.log",
		Exclude: []string{keptPath},
	})

	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Fatalf("stale log should be pruned: %v", err)
	}
	if _, err := os.Stat(newPath); err != nil {
		t.Fatalf("fresh log should remain: %v", err)
	}
	if _, err := os.Stat(keptPath); err != nil {
		t.Fatalf("excluded log should remain: %v", err)
	}
}

func TestCleanupDisabledByZeroRetention(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "whorl-old.log")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	stale := time.Now().AddDate(0, 0, -400)
	if err := os.Chtimes(path, stale, stale); err != nil {
		t.Fatalf("age: %v", err)
	}

	logging.CleanupOldLogs(logging.NewNop(), 0, logging.RetentionTarget{Dir: dir, Pattern: "whorl-*.log"})

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("retention 0 must not prune: %v", err)
	}
}
