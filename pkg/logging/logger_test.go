// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readLogFile reads back the file New creates for the given dir and
// service, parsed line by line.
func readLogFile(t *testing.T, dir, service string) []map[string]any {
	t.Helper()
	name := fmt.Sprintf("%s_%s.log", service, time.Now().Format("2006-01-02"))
	raw, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(raw)), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry), "line %q", line)
		entries = append(entries, entry)
	}
	return entries
}

func TestLevel_String(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "INFO", LevelInfo.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "ERROR", LevelError.String())
	assert.Equal(t, "UNKNOWN", Level(42).String())
}

func TestNew_WritesJSONFile(t *testing.T) {
	dir := t.TempDir()
	logger := New(Config{
		LogDir:  dir,
		Service: "solver",
		Quiet:   true,
	})
	logger.Info("solve complete", "length", 22, "algorithm", "staged4")
	require.NoError(t, logger.Close())

	entries := readLogFile(t, dir, "solver")
	require.Len(t, entries, 1)
	assert.Equal(t, "solve complete", entries[0]["msg"])
	assert.Equal(t, "solver", entries[0]["service"])
	assert.Equal(t, float64(22), entries[0]["length"])
	assert.Equal(t, "staged4", entries[0]["algorithm"])
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	dir := t.TempDir()
	logger := New(Config{
		Level:   LevelWarn,
		LogDir:  dir,
		Service: "solver",
		Quiet:   true,
	})
	logger.Debug("dropped")
	logger.Info("dropped too")
	logger.Warn("kept")
	logger.Error("also kept")
	require.NoError(t, logger.Close())

	entries := readLogFile(t, dir, "solver")
	require.Len(t, entries, 2)
	assert.Equal(t, "kept", entries[0]["msg"])
	assert.Equal(t, "also kept", entries[1]["msg"])
}

func TestWith_ChildCarriesAttributes(t *testing.T) {
	dir := t.TempDir()
	logger := New(Config{LogDir: dir, Service: "solver", Quiet: true})
	child := logger.With("request_id", "req-7")

	child.Info("child entry")
	logger.Info("parent entry")
	require.NoError(t, logger.Close())

	entries := readLogFile(t, dir, "solver")
	require.Len(t, entries, 2)
	assert.Equal(t, "req-7", entries[0]["request_id"])
	_, ok := entries[1]["request_id"]
	assert.False(t, ok, "parent must not inherit the child's attributes")
}

func TestClose_IsIdempotentAndFileless(t *testing.T) {
	quiet := New(Config{Quiet: true})
	assert.NoError(t, quiet.Close())

	withFile := New(Config{LogDir: t.TempDir(), Service: "solver", Quiet: true})
	assert.NoError(t, withFile.Close())
	assert.NoError(t, withFile.Close())
}

func TestNew_BadLogDirStillLogs(t *testing.T) {
	// A file path in LogDir's place cannot become a directory; the
	// logger must come up anyway.
	blocker := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0640))

	logger := New(Config{LogDir: blocker, Service: "solver", Quiet: true})
	logger.Info("no panic")
	assert.NoError(t, logger.Close())
}

func TestDefault_NotNil(t *testing.T) {
	logger := Default()
	require.NotNil(t, logger)
	assert.NoError(t, logger.Close())
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".aleutian/logs"), expandPath("~/.aleutian/logs"))
	assert.Equal(t, "/var/log/solver", expandPath("/var/log/solver"))
	assert.Equal(t, "relative/logs", expandPath("relative/logs"))
	assert.Equal(t, "", expandPath(""))
}
