package config

import (
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/yndnr/taskdeck-go/internal/core/domain"
	"github.com/yndnr/taskdeck-go/internal/storage"
	"github.com/yndnr/taskdeck-go/internal/telemetry/logger"
	"github.com/yndnr/taskdeck-go/pkg/crypto/adaptive"
)

// Verify checks cfg and reports every problem in one ErrConfigInvalid.
func Verify(cfg *CLIConfig) error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if u, err := url.Parse(cfg.Server); err != nil || u.Host == "" ||
		(u.Scheme != "http" && u.Scheme != "https") {
		add("server %q must be an http(s) URL", cfg.Server)
	}

	switch cfg.Output {
	case "table", "json", "yaml":
	default:
		add("output %q must be table, json or yaml", cfg.Output)
	}

	if d, err := time.ParseDuration(cfg.Timeout); err != nil || d <= 0 {
		add("timeout %q must be a positive duration", cfg.Timeout)
	}

	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		add("log.level %q is unknown", cfg.Log.Level)
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "text", "json":
	default:
		add("log.format %q must be text or json", cfg.Log.Format)
	}

	switch strings.ToLower(cfg.Storage.Engine) {
	case storage.EngineBadger:
		if cfg.Storage.Dir == "" {
			add("storage.dir is required for the badger engine")
		}
	case storage.EngineRedis:
		if cfg.Storage.Redis.Addr == "" {
			add("storage.redis.addr is required for the redis engine")
		}
	case storage.EngineMemory:
	default:
		add("storage.engine %q must be badger, redis or memory", cfg.Storage.Engine)
	}

	if _, err := encryptionKey(cfg.Storage.EncryptionKey); err != nil {
		add("storage.encryption_key: %v", err)
	}

	if cfg.RateLimit.RPS < 0 {
		add("rate_limit.rps must not be negative")
	}
	if cfg.RateLimit.Burst < 0 {
		add("rate_limit.burst must not be negative")
	}

	if len(problems) > 0 {
		return domain.ErrConfigInvalid.WithDetails(strings.Join(problems, "; "))
	}
	return nil
}

// RequestTimeout returns the parsed timeout, or zero when unparsable.
func (c *CLIConfig) RequestTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// LoggerConfig returns the logger settings.
func (c *CLIConfig) LoggerConfig() logger.Config {
	lc := logger.DefaultConfig()
	lc.Level = c.Log.Level
	lc.Format = c.Log.Format
	return lc
}

// StorageOptions converts the storage section for storage.Open.
func (c *CLIConfig) StorageOptions() (storage.Config, error) {
	sc := storage.DefaultConfig(c.Storage.Dir)
	sc.Engine = strings.ToLower(c.Storage.Engine)
	sc.Redis.Addr = c.Storage.Redis.Addr
	sc.Redis.Password = c.Storage.Redis.Password
	sc.Redis.DB = c.Storage.Redis.DB

	key, err := encryptionKey(c.Storage.EncryptionKey)
	if err != nil {
		return storage.Config{}, domain.ErrConfigInvalid.
			WithDetails("storage.encryption_key").WithCause(err)
	}
	sc.EncryptionKey = key
	return sc, nil
}

func encryptionKey(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("not hex: %w", err)
	}
	if len(key) != adaptive.KeySize {
		return nil, fmt.Errorf("want %d bytes, got %d", adaptive.KeySize, len(key))
	}
	return key, nil
}
