package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CosmWasm/wasmicq/internal/config"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// writeConfig stores a config with its database under dir.
func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	cfg := config.Default()
	cfg.DB.Dir = filepath.Join(dir, "data")
	cfg.Log.Level = "error"
	path := filepath.Join(dir, "icq.toml")
	require.NoError(t, config.Write(path, cfg, false))
	return path
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "icq.toml")

	out, err := run(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, err = run(t, "config", "init", path)
	require.Error(t, err)
	_, err = run(t, "config", "init", "--force", path)
	require.NoError(t, err)
}

func TestDemoInMemory(t *testing.T) {
	out, err := run(t, "demo", "--memdb", "--with-timeout", "--amount", "77")
	require.NoError(t, err)

	assert.Contains(t, out, "opened channel-0")
	assert.Contains(t, out, "sent send_query_balance as sequence 1")
	assert.Contains(t, out, "sent send_query_twap as sequence 2")
	assert.Contains(t, out, "sequence 1 acknowledged: balance 77uosmo")
	assert.Contains(t, out, "sequence 2 acknowledged: price 0.125000000000000000")
	assert.Contains(t, out, "sequence 3 abandoned: no result")
}

func TestDemoThenState(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir)

	_, err := run(t, "--config", path, "demo", "--price", "")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "data"))
	require.NoError(t, err)

	// a second run continues the sequence
	out, err := run(t, "--config", path, "demo")
	require.NoError(t, err)
	assert.Contains(t, out, "sent send_query_balance as sequence 3")

	out, err = run(t, "--config", path, "state")
	require.NoError(t, err)

	var dump stateDump
	require.NoError(t, json.Unmarshal([]byte(out), &dump))
	require.NotNil(t, dump.LastSequence)
	assert.Equal(t, uint64(4), *dump.LastSequence)
	assert.Len(t, dump.Channels, 1)
	assert.Len(t, dump.Balances, 2)
	// the host had no TWAP in the first run
	require.Len(t, dump.Errors, 1)
	assert.Equal(t, uint64(2), dump.Errors[0].Sequence)
	require.Len(t, dump.Prices, 1)
	assert.Equal(t, uint64(4), dump.Prices[0].Sequence)
}

func TestInvalidConfig(t *testing.T) {
	t.Setenv("WASMICQ_DB_BACKEND", "rocksdb")
	_, err := run(t, "state")
	require.Error(t, err)
}
