package config

import (
	"flag"
	"os"
	"time"

	"github.com/discera/discera-client/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   base URL of the auth server
//	-s string   store backend (sqlite, file, redis, memory)
//	-p string   store path (sqlite database or encrypted file)
//	-r string   redis address
//	-t int      request timeout (in seconds)
//	-l string   log level
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-s", "-p", "-r", "-t", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the auth server")
	fs.StringVar(&cfg.StoreBackend, "s", cfg.StoreBackend, "store backend: sqlite, file, redis or memory")
	fs.StringVar(&cfg.StorePath, "p", cfg.StorePath, "store path")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "redis address")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
