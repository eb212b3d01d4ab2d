package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_FallsBackToDefaultsWhenNoConfigFile(t *testing.T) {
	home := t.TempDir()
	cfg, err := Load(home)
	require.NoError(t, err)
	require.Equal(t, home, cfg.Home)
	require.Equal(t, Default().ListenAddr, cfg.ListenAddr)
	require.Equal(t, Default().Executor.DefaultChips, cfg.Executor.DefaultChips)
}

func TestLoad_ReadsOverridesFromConfigFile(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, "config"), 0o755))
	toml := []byte("listen_addr = \"tcp://0.0.0.0:9999\"\n[executor]\ndefault_chips = 777\n")
	require.NoError(t, os.WriteFile(filepath.Join(home, "config", "casino.toml"), toml, 0o644))

	cfg, err := Load(home)
	require.NoError(t, err)
	require.Equal(t, "tcp://0.0.0.0:9999", cfg.ListenAddr)
	require.Equal(t, uint64(777), cfg.Executor.DefaultChips)
	// Values not present in the file still fall back to defaults.
	require.Equal(t, Default().Mempool.MaxBacklog, cfg.Mempool.MaxBacklog)
}
