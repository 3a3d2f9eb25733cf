package config

import (
	"path/filepath"
	"time"

	"github.com/discera/discera-client/internal/client/models"
	"github.com/discera/discera-client/internal/filex"
)

// AppName names the per-user state directory.
const AppName = "discera"

// Store backends accepted in Config.StoreBackend.
const (
	StoreSQLite = "sqlite"
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Config holds runtime settings for the DISCERA client.
type Config struct {
	ServerURL      string
	RequestTimeout time.Duration

	StoreBackend string
	// StorePath is the sqlite database or encrypted file. Empty selects a
	// per-backend file in the state directory, see ResolvedStorePath.
	StorePath string
	// StoreKey is the passphrase of the encrypted file store.
	StoreKey string
	RedisAddr string
	RedisKey  string

	CheckAuthRetries  uint64
	CheckAuthBackoff  time.Duration
	LocalExpiryCheck  bool
	MinPasswordLength int

	LogLevel string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8000/auth"
	c.RequestTimeout = 15 * time.Second

	c.StoreBackend = StoreSQLite
	c.StorePath = ""
	c.StoreKey = ""
	c.RedisAddr = "127.0.0.1:6379"
	c.RedisKey = ""

	c.CheckAuthRetries = 2
	c.CheckAuthBackoff = 200 * time.Millisecond
	c.LocalExpiryCheck = true
	c.MinPasswordLength = models.DefaultMinPasswordLength

	c.LogLevel = "warn"
}

// Default file names inside the state directory.
const (
	DefaultSQLiteFile = "client.db"
	DefaultStoreFile  = "session.enc"
)

// ResolvedStorePath returns StorePath, or the default location for the
// selected backend when StorePath is empty. Backends without a local file
// resolve to "".
func (c *Config) ResolvedStorePath() string {
	if c.StorePath != "" {
		return c.StorePath
	}
	switch c.StoreBackend {
	case StoreSQLite, "":
		return filepath.Join(filex.StateDir(AppName), DefaultSQLiteFile)
	case StoreFile:
		return filepath.Join(filex.StateDir(AppName), DefaultStoreFile)
	}
	return ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
