// Package config loads runtime configuration for the DISCERA client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c/-config, or $DISCERA_CONFIG.
//  3. Command-line flags, which override earlier values.
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "15s" or integer
// nanoseconds. Every field is optional:
//
//	{
//	  "server_url": "http://127.0.0.1:8000/auth",
//	  "request_timeout": "15s",
//	  "store_backend": "file",
//	  "store_path": "/home/me/.config/discera/session.json",
//	  "store_key": "passphrase",
//	  "redis_addr": "127.0.0.1:6379",
//	  "check_auth_retries": 2,
//	  "check_auth_backoff": "200ms",
//	  "local_expiry_check": true,
//	  "min_password_length": 6,
//	  "log_level": "info"
//	}
package config
