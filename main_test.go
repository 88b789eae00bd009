package main

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func Test_setupLogging(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vortex.log")

	closeLog, err := setupLogging(path, "debug")
	require.NoError(t, err)
	require.Equal(t, log.DebugLevel, log.GetLevel())

	log.Info("hello from test")
	closeLog()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "hello from test")
	require.Equal(t, os.Stderr, log.StandardLogger().Out)

	log.SetLevel(log.InfoLevel)
}

func Test_setupLoggingBadLevel(t *testing.T) {
	_, err := setupLogging("", "loud")
	require.Error(t, err)
}

func Test_rootCmdFlags(t *testing.T) {
	f := rootCmd.Flags().Lookup("log-level")
	require.NotNil(t, f)
	require.Equal(t, "info", f.DefValue)

	f = rootCmd.Flags().Lookup("log-file")
	require.NotNil(t, f)
	require.Empty(t, f.DefValue)
}
