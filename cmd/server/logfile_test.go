package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogFileWriter_KeepsTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "painel.log")
	w, err := openLogFile(path, 20, 10)
	require.NoError(t, err)
	defer w.Close()

	_, err = w.Write([]byte(strings.Repeat("a", 15)))
	require.NoError(t, err)
	_, err = w.Write([]byte("0123456789"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "0123456789", string(data))

	_, err = w.Write([]byte("xy"))
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "0123456789xy", string(data))
}

func TestParseLogLevel(t *testing.T) {
	require.Equal(t, "DEBUG", parseLogLevel("debug").String())
	require.Equal(t, "INFO", parseLogLevel("bogus").String())
}

func TestEnsureDBDir(t *testing.T) {
	require.NoError(t, ensureDBDir(":memory:"))
	dir := filepath.Join(t.TempDir(), "data")
	require.NoError(t, ensureDBDir(filepath.Join(dir, "painel.db")))
	_, err := os.Stat(dir)
	require.NoError(t, err)
}
