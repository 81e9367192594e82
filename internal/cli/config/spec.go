package config

import (
	"path/filepath"
)

// CLIConfig is the configuration for the taskdeck CLI.
type CLIConfig struct {
	Server  string `koanf:"server" yaml:"server" json:"server"`
	Output  string `koanf:"output" yaml:"output" json:"output"`   // table, json, yaml
	Timeout string `koanf:"timeout" yaml:"timeout" json:"timeout"` // Go duration, e.g. "30s"

	Log       LogConfig       `koanf:"log" yaml:"log" json:"log"`
	Storage   StorageConfig   `koanf:"storage" yaml:"storage" json:"storage"`
	TLS       TLSConfig       `koanf:"tls" yaml:"tls" json:"tls"`
	RateLimit RateLimitConfig `koanf:"rate_limit" yaml:"rate_limit" json:"rate_limit"`
}

// LogConfig controls diagnostic output on stderr.
type LogConfig struct {
	Level  string `koanf:"level" yaml:"level" json:"level"`
	Format string `koanf:"format" yaml:"format" json:"format"`
}

// StorageConfig selects where the access token is persisted.
type StorageConfig struct {
	Engine string      `koanf:"engine" yaml:"engine" json:"engine"` // badger, redis, memory
	Dir    string      `koanf:"dir" yaml:"dir" json:"dir"`
	Redis  RedisConfig `koanf:"redis" yaml:"redis" json:"redis"`

	// EncryptionKey is 64 hex characters. Empty disables encryption at rest.
	EncryptionKey string `koanf:"encryption_key" yaml:"encryption_key,omitempty" json:"encryption_key,omitempty"`
}

// RedisConfig is used when Storage.Engine is "redis".
type RedisConfig struct {
	Addr     string `koanf:"addr" yaml:"addr" json:"addr"`
	Password string `koanf:"password" yaml:"password,omitempty" json:"password,omitempty"`
	DB       int    `koanf:"db" yaml:"db" json:"db"`
}

// TLSConfig configures trust for https servers.
type TLSConfig struct {
	CAFile string `koanf:"ca_file" yaml:"ca_file,omitempty" json:"ca_file,omitempty"`
}

// RateLimitConfig throttles outgoing requests. RPS 0 means unlimited.
type RateLimitConfig struct {
	RPS   float64 `koanf:"rps" yaml:"rps" json:"rps"`
	Burst int     `koanf:"burst" yaml:"burst" json:"burst"`
}

// Keys lists every dotted key CLIConfig understands.
var Keys = []string{
	"server",
	"output",
	"timeout",
	"log.level",
	"log.format",
	"storage.engine",
	"storage.dir",
	"storage.redis.addr",
	"storage.redis.password",
	"storage.redis.db",
	"storage.encryption_key",
	"tls.ca_file",
	"rate_limit.rps",
	"rate_limit.burst",
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Server:  "http://localhost:8000",
		Output:  "table",
		Timeout: "30s",
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Storage: StorageConfig{
			Engine: "badger",
			Dir:    filepath.Join(HomeDir(), "data"),
			Redis: RedisConfig{
				Addr: "localhost:6379",
			},
		},
		RateLimit: RateLimitConfig{
			Burst: 1,
		},
	}
}

// Flatten returns cfg as dotted keys, the form confloader takes defaults in.
func Flatten(cfg *CLIConfig) map[string]any {
	return map[string]any{
		"server":                 cfg.Server,
		"output":                 cfg.Output,
		"timeout":                cfg.Timeout,
		"log.level":              cfg.Log.Level,
		"log.format":             cfg.Log.Format,
		"storage.engine":         cfg.Storage.Engine,
		"storage.dir":            cfg.Storage.Dir,
		"storage.redis.addr":     cfg.Storage.Redis.Addr,
		"storage.redis.password": cfg.Storage.Redis.Password,
		"storage.redis.db":       cfg.Storage.Redis.DB,
		"storage.encryption_key": cfg.Storage.EncryptionKey,
		"tls.ca_file":            cfg.TLS.CAFile,
		"rate_limit.rps":         cfg.RateLimit.RPS,
		"rate_limit.burst":       cfg.RateLimit.Burst,
	}
}
