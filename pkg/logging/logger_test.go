// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package logging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// =============================================================================
// Level Tests
// =============================================================================

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
		{Level(-1), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.level.String(); got != tt.want {
				t.Errorf("Level.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLevel_toSlogLevel(t *testing.T) {
	tests := []struct {
		level Level
		want  slog.Level
	}{
		{LevelDebug, slog.LevelDebug},
		{LevelInfo, slog.LevelInfo},
		{LevelWarn, slog.LevelWarn},
		{LevelError, slog.LevelError},
		{Level(99), slog.LevelInfo}, // Unknown defaults to Info
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			if got := tt.level.toSlogLevel(); got != tt.want {
				t.Errorf("Level.toSlogLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

// =============================================================================
// Logger Constructor Tests
// =============================================================================

func TestNew_DefaultConfig(t *testing.T) {
	logger := New(Config{})
	if logger == nil {
		t.Fatal("New() returned nil")
	}
	if logger.slog == nil {
		t.Error("logger.slog is nil")
	}
	defer logger.Close()
}

func TestNew_FileLogging(t *testing.T) {
	dir := t.TempDir()
	logger := New(Config{
		Level:   LevelInfo,
		LogDir:  dir,
		Service: "test",
		Quiet:   true,
	})

	logger.Info("file test message", "key", "value")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	want := filepath.Join(dir, "test_"+time.Now().Format("2006-01-02")+".log")
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "file test message") {
		t.Errorf("log file missing message, got: %s", data)
	}
	if !strings.Contains(string(data), `"service":"test"`) {
		t.Errorf("log file missing service attribute, got: %s", data)
	}
}

// TestSlog_AsDefaultLogger mirrors the service entrypoint: the wrapped
// slog.Logger is installed as the process default and records land in
// the configured log directory.
func TestSlog_AsDefaultLogger(t *testing.T) {
	dir := t.TempDir()
	logger := New(Config{
		Level:   LevelInfo,
		LogDir:  dir,
		Service: "verifyd",
		JSON:    true,
		Quiet:   true,
	})

	sl := logger.Slog()
	if sl == nil {
		t.Fatal("Slog() returned nil")
	}
	sl.Info("server starting", "port", 12230)
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	want := filepath.Join(dir, "verifyd_"+time.Now().Format("2006-01-02")+".log")
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "server starting") {
		t.Errorf("log file missing message, got: %s", data)
	}
	if !strings.Contains(string(data), `"service":"verifyd"`) {
		t.Errorf("log file missing service attribute, got: %s", data)
	}
}

func TestDefault(t *testing.T) {
	logger := Default()
	if logger == nil {
		t.Fatal("Default() returned nil")
	}
	defer logger.Close()
}

func TestLogger_With(t *testing.T) {
	parent := New(Config{Quiet: true})
	defer parent.Close()

	child := parent.With("request_id", "abc")
	if child == parent {
		t.Error("With() should return a new logger")
	}
	if child.slog == parent.slog {
		t.Error("With() should return a logger with new attributes")
	}
}

// =============================================================================
// Exporter Tests
// =============================================================================

func TestBufferedExporter(t *testing.T) {
	exporter := NewBufferedExporter()
	logger := New(Config{
		Level:    LevelInfo,
		Service:  "export-test",
		Quiet:    true,
		Exporter: exporter,
	})

	logger.Info("exported message", "count", 3)
	logger.Debug("below level, not exported")

	// Export runs on a goroutine; give it time to land.
	deadline := time.Now().Add(2 * time.Second)
	var entries []LogEntry
	for time.Now().Before(deadline) {
		entries = exporter.Entries()
		if len(entries) > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	if len(entries) != 1 {
		t.Fatalf("expected 1 exported entry, got %d", len(entries))
	}
	if entries[0].Message != "exported message" {
		t.Errorf("Message = %q", entries[0].Message)
	}
	if entries[0].Service != "export-test" {
		t.Errorf("Service = %q", entries[0].Service)
	}
	if entries[0].Attrs["count"] != 3 {
		t.Errorf("Attrs[count] = %v", entries[0].Attrs["count"])
	}

	if err := logger.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestNopExporter(t *testing.T) {
	exporter := &NopExporter{}
	if err := exporter.Export(context.Background(), LogEntry{}); err != nil {
		t.Errorf("Export() error = %v", err)
	}
	if err := exporter.Flush(context.Background()); err != nil {
		t.Errorf("Flush() error = %v", err)
	}
	if err := exporter.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

// =============================================================================
// Helper Tests
// =============================================================================

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		in   string
		want string
	}{
		{"~/.veritas/logs", filepath.Join(home, ".veritas/logs")},
		{"/var/log", "/var/log"},
		{"relative/path", "relative/path"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := expandPath(tt.in); got != tt.want {
			t.Errorf("expandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestArgsToMap(t *testing.T) {
	m := argsToMap([]any{"a", 1, "b", "two", "dangling"})
	if len(m) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(m))
	}
	if m["a"] != 1 || m["b"] != "two" {
		t.Errorf("unexpected map contents: %v", m)
	}

	if got := argsToMap(nil); len(got) != 0 {
		t.Errorf("argsToMap(nil) = %v, want empty", got)
	}
}
