// Package config defines the runtime configuration of the query contract
// and its host process.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/CosmWasm/wasmicq/internal/store"
)

// EnvPrefix is prepended to every environment override, e.g. WASMICQ_DB_BACKEND.
const EnvPrefix = "WASMICQ"

// MaxSeconds is the longest window that still fits a time.Duration.
const MaxSeconds = math.MaxInt64 / uint64(time.Second)

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config is the full configuration. Field names map to TOML keys.
type Config struct {
	// TimeoutSeconds is added to the block time to get the absolute packet timeout.
	TimeoutSeconds uint64 `mapstructure:"timeout_seconds" toml:"timeout_seconds"`
	// Memo is sent along with every query packet.
	Memo string `mapstructure:"memo" toml:"memo"`
	// TwapWindowSeconds is how far back from the block time a TWAP query starts.
	TwapWindowSeconds uint64 `mapstructure:"twap_window_seconds" toml:"twap_window_seconds"`

	DB     DBConfig     `mapstructure:"db" toml:"db"`
	Log    LogConfig    `mapstructure:"log" toml:"log"`
	Server ServerConfig `mapstructure:"server" toml:"server"`
}

type DBConfig struct {
	Backend string `mapstructure:"backend" toml:"backend"`
	Dir     string `mapstructure:"dir" toml:"dir"`
	Name    string `mapstructure:"name" toml:"name"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" toml:"level"`
	Format string `mapstructure:"format" toml:"format"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr" toml:"addr"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		TimeoutSeconds:    120,
		Memo:              "icq request",
		TwapWindowSeconds: 4 * 60 * 60,
		DB: DBConfig{
			Backend: store.BackendGoLevelDB,
			Dir:     "data",
			Name:    "wasmicq",
		},
		Log: LogConfig{
			Level:  "info",
			Format: FormatConsole,
		},
		Server: ServerConfig{
			Addr: ":9464",
		},
	}
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate checks the values that cannot be fixed up at runtime.
func (c Config) Validate() error {
	if c.TimeoutSeconds == 0 {
		return errors.New("timeout_seconds must be positive")
	}
	if c.TimeoutSeconds > MaxSeconds {
		return fmt.Errorf("timeout_seconds must not exceed %d", MaxSeconds)
	}
	if c.TwapWindowSeconds > MaxSeconds {
		return fmt.Errorf("twap_window_seconds must not exceed %d", MaxSeconds)
	}
	switch c.DB.Backend {
	case store.BackendMemDB:
	case store.BackendGoLevelDB:
		if c.DB.Dir == "" {
			return errors.New("db.dir is required for the goleveldb backend")
		}
	default:
		return fmt.Errorf("unknown db.backend %q", c.DB.Backend)
	}
	if c.DB.Name == "" {
		return errors.New("db.name must not be empty")
	}
	switch c.Log.Format {
	case FormatConsole, FormatJSON:
	default:
		return fmt.Errorf("unknown log.format %q", c.Log.Format)
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("timeout_seconds", d.TimeoutSeconds)
	v.SetDefault("memo", d.Memo)
	v.SetDefault("twap_window_seconds", d.TwapWindowSeconds)
	v.SetDefault("db.backend", d.DB.Backend)
	v.SetDefault("db.dir", d.DB.Dir)
	v.SetDefault("db.name", d.DB.Name)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("server.addr", d.Server.Addr)
	return v
}

// Load reads the TOML file at path, applies WASMICQ_* environment overrides
// and validates the result. An empty path loads defaults and environment only.
func Load(path string) (Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Write stores cfg as TOML at path, creating parent directories.
// An existing file is only replaced when overwrite is set.
func Write(path string, cfg Config, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config %s already exists", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return f.Close()
}
