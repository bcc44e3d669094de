package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 120*time.Second, cfg.Timeout())
	assert.Equal(t, uint64(4*60*60), cfg.TwapWindowSeconds)
}

func TestValidate(t *testing.T) {
	cases := map[string]struct {
		mutate func(*Config)
		errMsg string
	}{
		"zero timeout": {
			mutate: func(c *Config) { c.TimeoutSeconds = 0 },
			errMsg: "timeout_seconds",
		},
		"timeout too long": {
			mutate: func(c *Config) { c.TimeoutSeconds = 1 << 62 },
			errMsg: "timeout_seconds must not exceed",
		},
		"longest timeout": {
			mutate: func(c *Config) { c.TimeoutSeconds = MaxSeconds },
		},
		"twap window too long": {
			mutate: func(c *Config) { c.TwapWindowSeconds = MaxSeconds + 1 },
			errMsg: "twap_window_seconds must not exceed",
		},
		"unknown backend": {
			mutate: func(c *Config) { c.DB.Backend = "rocksdb" },
			errMsg: "unknown db.backend",
		},
		"leveldb without dir": {
			mutate: func(c *Config) { c.DB.Dir = "" },
			errMsg: "db.dir",
		},
		"empty name": {
			mutate: func(c *Config) { c.DB.Name = "" },
			errMsg: "db.name",
		},
		"unknown log format": {
			mutate: func(c *Config) { c.Log.Format = "xml" },
			errMsg: "unknown log.format",
		},
		"memdb without dir": {
			mutate: func(c *Config) { c.DB.Backend = "memdb"; c.DB.Dir = "" },
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.errMsg == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tc.errMsg)
		})
	}
}

func TestWriteThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "wasmicq.toml")

	cfg := Default()
	cfg.TimeoutSeconds = 300
	cfg.Memo = "from test"
	cfg.DB.Backend = "memdb"
	cfg.Log.Format = FormatJSON
	require.NoError(t, Write(path, cfg, false))

	// refuses to clobber unless asked
	require.ErrorContains(t, Write(path, cfg, false), "already exists")
	require.NoError(t, Write(path, cfg, true))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wasmicq.toml")
	require.NoError(t, os.WriteFile(path, []byte("memo = \"partial\"\n[log]\nlevel = \"debug\"\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "partial", cfg.Memo)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, Default().TimeoutSeconds, cfg.TimeoutSeconds)
	assert.Equal(t, Default().DB, cfg.DB)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("WASMICQ_TIMEOUT_SECONDS", "60")
	t.Setenv("WASMICQ_DB_BACKEND", "memdb")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, uint64(60), cfg.TimeoutSeconds)
	assert.Equal(t, "memdb", cfg.DB.Backend)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.ErrorContains(t, err, "read config")

	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("timeout_seconds = 0\n"), 0o600))
	_, err = Load(path)
	require.ErrorContains(t, err, "invalid config")
}
