package cmd

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/therealmvp/config"
)

func newTestFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.BoolVar(&flagDebug, flagDebugName, false, "")
	flags.StringVar(&flagSource, flagSourceName, "", "")
	flags.StringVar(&flagAddr, flagAddrName, ":8080", "")
	flags.BoolVar(&flagOpen, flagOpenName, false, "")
	flags.StringVar(&flagCache, flagCacheName, "none", "")
	return flags
}

func TestApplyFlagsOnlyOverridesChangedFlags(t *testing.T) {
	flags := newTestFlagSet()
	require.NoError(t, flags.Parse([]string{"--source", "embedded:sample", "--cache", "sqlite"}))

	cfg := config.Default()
	cfg.Addr = ":9999"
	cfg.Debug = true
	applyFlags(flags, &cfg)

	assert.Equal(t, "embedded:sample", cfg.Source)
	assert.Equal(t, "sqlite", cfg.Cache.Backend)
	assert.Equal(t, ":9999", cfg.Addr, "unset flag default must not clobber config")
	assert.True(t, cfg.Debug)
	assert.False(t, cfg.OpenBrowser)
}

func TestApplyFlagsNoArgs(t *testing.T) {
	flags := newTestFlagSet()
	require.NoError(t, flags.Parse(nil))

	cfg := config.Default()
	want := cfg
	applyFlags(flags, &cfg)
	assert.Equal(t, want, cfg)
}

func TestSubcommandsRegistered(t *testing.T) {
	for _, name := range []string{"serve", "export"} {
		c, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, c.Name())
	}
}

func TestSetupLoggingWrapsFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	cfg := config.Default()
	cfg.LogDir = filepath.Join(blocker, "logs")
	f, err := setupLogging(cfg, false)
	require.Error(t, err)
	assert.Nil(t, f)
	assert.Contains(t, err.Error(), "failed to set up logging")

	var pathErr *fs.PathError
	assert.ErrorAs(t, errors.Cause(err), &pathErr)
}

func TestSetupLoggingStdoutOnly(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	cfg := config.Default()
	cfg.LogDir = filepath.Join(t.TempDir(), "unused")
	f, err := setupLogging(cfg, true)
	require.NoError(t, err)
	assert.Nil(t, f)
	assert.NoDirExists(t, cfg.LogDir)
}
