package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/RamaSai2519/secure-vault/internal/flagx"
	"github.com/RamaSai2519/secure-vault/internal/timex"
)

// JsonConfig is the on-disk form of Config. Durations accept "15s" style
// strings or integer nanoseconds. Absent or empty fields leave the current
// value untouched.
type JsonConfig struct {
	EndpointAddrHTTP      string         `json:"endpoint_addr_http"`
	Storage               string         `json:"storage"`
	DatabaseDSN           string         `json:"database_dsn"`
	RedisURL              string         `json:"redis_url"`
	SecretKey             string         `json:"secret_key"`
	EncryptionKey         string         `json:"encryption_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	ReadTimeout           timex.Duration `json:"read_timeout"`
	WriteTimeout          timex.Duration `json:"write_timeout"`
	IdleTimeout           timex.Duration `json:"idle_timeout"`
	ShutdownTimeout       timex.Duration `json:"shutdown_timeout"`
	LogLevel              string         `json:"log_level"`
	LogFormat             string         `json:"log_format"`
}

// parseJson loads the file named by -c / -config in args into config.
// Without either flag nothing happens. An unreadable file or invalid JSON
// panics: the server must not start on a half-read configuration.
func parseJson(config *Config, args []string) {
	path := flagx.ConfigFilePath(args)
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.Storage, c.Storage)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.RedisURL, c.RedisURL)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.EncryptionKey, c.EncryptionKey)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)
	setDuration(&config.TokenValidityDuration, c.TokenValidityDuration)
	setDuration(&config.ReadTimeout, c.ReadTimeout)
	setDuration(&config.WriteTimeout, c.WriteTimeout)
	setDuration(&config.IdleTimeout, c.IdleTimeout)
	setDuration(&config.ShutdownTimeout, c.ShutdownTimeout)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
