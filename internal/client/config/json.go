package config

import (
	"encoding/json"
	"os"

	"github.com/discera/discera-client/internal/flagx"
	"github.com/discera/discera-client/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from zero values so a partial file only
// overrides what it names.
type JsonConfig struct {
	ServerURL         *string         `json:"server_url"`
	RequestTimeout    *timex.Duration `json:"request_timeout"`
	StoreBackend      *string         `json:"store_backend"`
	StorePath         *string         `json:"store_path"`
	StoreKey          *string         `json:"store_key"`
	RedisAddr         *string         `json:"redis_addr"`
	RedisKey          *string         `json:"redis_key"`
	CheckAuthRetries  *uint64         `json:"check_auth_retries"`
	CheckAuthBackoff  *timex.Duration `json:"check_auth_backoff"`
	LocalExpiryCheck  *bool           `json:"local_expiry_check"`
	MinPasswordLength *int            `json:"min_password_length"`
	LogLevel          *string         `json:"log_level"`
}

// parseJson overlays cfg with values from the JSON file named by -c/-config
// or $DISCERA_CONFIG. It panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setIf(&cfg.ServerURL, jc.ServerURL)
	setIf(&cfg.StoreBackend, jc.StoreBackend)
	setIf(&cfg.StorePath, jc.StorePath)
	setIf(&cfg.StoreKey, jc.StoreKey)
	setIf(&cfg.RedisAddr, jc.RedisAddr)
	setIf(&cfg.RedisKey, jc.RedisKey)
	setIf(&cfg.CheckAuthRetries, jc.CheckAuthRetries)
	setIf(&cfg.LocalExpiryCheck, jc.LocalExpiryCheck)
	setIf(&cfg.MinPasswordLength, jc.MinPasswordLength)
	setIf(&cfg.LogLevel, jc.LogLevel)

	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.CheckAuthBackoff != nil {
		cfg.CheckAuthBackoff = jc.CheckAuthBackoff.Duration
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
