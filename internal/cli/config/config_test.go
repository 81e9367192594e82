package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/taskdeck-go/internal/core/domain"
	"github.com/yndnr/taskdeck-go/internal/storage"
)

const testKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestDefault(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := Default()
	if cfg.Server != "http://localhost:8000" {
		t.Errorf("Server = %q", cfg.Server)
	}
	if cfg.Output != "table" {
		t.Errorf("Output = %q", cfg.Output)
	}
	if cfg.Storage.Engine != storage.EngineBadger {
		t.Errorf("Storage.Engine = %q", cfg.Storage.Engine)
	}
	if want := filepath.Join(home, ".taskdeck", "data"); cfg.Storage.Dir != want {
		t.Errorf("Storage.Dir = %q, want %q", cfg.Storage.Dir, want)
	}
	if err := Verify(cfg); err != nil {
		t.Errorf("Verify(Default()) = %v", err)
	}
}

func TestDefaultPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if got, want := DefaultConfigPath(), filepath.Join(home, ".taskdeck", "cli.yaml"); got != want {
		t.Errorf("DefaultConfigPath() = %q, want %q", got, want)
	}
	if got, want := DefaultHistoryPath(), filepath.Join(home, ".taskdeck", "history"); got != want {
		t.Errorf("DefaultHistoryPath() = %q, want %q", got, want)
	}
}

func TestFlattenCoversKeys(t *testing.T) {
	flat := Flatten(Default())
	if len(flat) != len(Keys) {
		t.Fatalf("flatten has %d keys, Keys has %d", len(flat), len(Keys))
	}
	for _, k := range Keys {
		if _, ok := flat[k]; !ok {
			t.Errorf("flatten missing %q", k)
		}
	}
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoad_Layers(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "cli.yaml")
	content := `
server: http://file:9000
output: yaml
storage:
  engine: redis
  redis:
    addr: redis:6379
    db: 2
rate_limit:
  rps: 5
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TASKDECK_OUTPUT", "json")
	t.Setenv("TASKDECK_STORAGE_ENCRYPTION_KEY", testKeyHex)
	t.Setenv("TASKDECK_RATE_LIMIT_BURST", "4")

	cfg, err := Load(path, map[string]any{"server": "http://flag:1"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server != "http://flag:1" {
		t.Errorf("Server = %q, flag should win", cfg.Server)
	}
	if cfg.Output != "json" {
		t.Errorf("Output = %q, env should beat file", cfg.Output)
	}
	if cfg.Storage.Engine != "redis" || cfg.Storage.Redis.Addr != "redis:6379" || cfg.Storage.Redis.DB != 2 {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.Storage.EncryptionKey != testKeyHex {
		t.Errorf("EncryptionKey = %q", cfg.Storage.EncryptionKey)
	}
	if cfg.RateLimit.RPS != 5 || cfg.RateLimit.Burst != 4 {
		t.Errorf("RateLimit = %+v", cfg.RateLimit)
	}
	if cfg.Timeout != "30s" {
		t.Errorf("Timeout = %q, default should remain", cfg.Timeout)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	if err := os.WriteFile(path, []byte("server: [unterminated"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path, nil); err == nil {
		t.Error("Load() should fail on invalid YAML")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "cli.yaml")

	cfg := Default()
	cfg.Server = "https://tasks.example.com"
	cfg.Log.Level = "debug"
	cfg.TLS.CAFile = "/etc/ssl/ca.pem"
	cfg.Storage.EncryptionKey = testKeyHex

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("perm = %o, want 600", perm)
	}
	if _, err := os.Stat(path + ".tmp"); !errors.Is(err, os.ErrNotExist) {
		t.Error("temporary file left behind")
	}

	got, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *got != *cfg {
		t.Errorf("round trip = %+v, want %+v", got, cfg)
	}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CLIConfig)
		want   string
	}{
		{"bad server scheme", func(c *CLIConfig) { c.Server = "ftp://x" }, "server"},
		{"server without host", func(c *CLIConfig) { c.Server = "localhost" }, "server"},
		{"output", func(c *CLIConfig) { c.Output = "xml" }, "output"},
		{"timeout", func(c *CLIConfig) { c.Timeout = "soon" }, "timeout"},
		{"zero timeout", func(c *CLIConfig) { c.Timeout = "0s" }, "timeout"},
		{"log level", func(c *CLIConfig) { c.Log.Level = "loud" }, "log.level"},
		{"log format", func(c *CLIConfig) { c.Log.Format = "xml" }, "log.format"},
		{"engine", func(c *CLIConfig) { c.Storage.Engine = "sqlite" }, "storage.engine"},
		{"badger dir", func(c *CLIConfig) { c.Storage.Dir = "" }, "storage.dir"},
		{"redis addr", func(c *CLIConfig) {
			c.Storage.Engine = "redis"
			c.Storage.Redis.Addr = ""
		}, "storage.redis.addr"},
		{"key not hex", func(c *CLIConfig) { c.Storage.EncryptionKey = "zz" }, "encryption_key"},
		{"key short", func(c *CLIConfig) { c.Storage.EncryptionKey = "abcd" }, "encryption_key"},
		{"rps", func(c *CLIConfig) { c.RateLimit.RPS = -1 }, "rate_limit.rps"},
		{"burst", func(c *CLIConfig) { c.RateLimit.Burst = -1 }, "rate_limit.burst"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Storage.Dir = "/tmp/taskdeck"
			tt.mutate(cfg)

			err := Verify(cfg)
			if !errors.Is(err, domain.ErrConfigInvalid) {
				t.Fatalf("Verify() = %v, want ErrConfigInvalid", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestVerify_ReportsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Output = "xml"
	cfg.Timeout = "never"

	err := Verify(cfg)
	if err == nil {
		t.Fatal("Verify() = nil")
	}
	for _, want := range []string{"output", "timeout"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %q", err, want)
		}
	}
}

func TestStorageOptions(t *testing.T) {
	cfg := Default()
	cfg.Storage.Engine = "REDIS"
	cfg.Storage.Redis = RedisConfig{Addr: "r:1", Password: "pw", DB: 3}
	cfg.Storage.EncryptionKey = testKeyHex

	sc, err := cfg.StorageOptions()
	if err != nil {
		t.Fatalf("StorageOptions() error = %v", err)
	}
	if sc.Engine != storage.EngineRedis {
		t.Errorf("Engine = %q", sc.Engine)
	}
	if sc.Redis.Addr != "r:1" || sc.Redis.Password != "pw" || sc.Redis.DB != 3 {
		t.Errorf("Redis = %+v", sc.Redis)
	}
	if sc.Redis.KeyPrefix != "taskdeck:" {
		t.Errorf("KeyPrefix = %q", sc.Redis.KeyPrefix)
	}
	if len(sc.EncryptionKey) != 32 || sc.EncryptionKey[31] != 0x1f {
		t.Errorf("EncryptionKey = %x", sc.EncryptionKey)
	}

	cfg.Storage.EncryptionKey = "nothex"
	if _, err := cfg.StorageOptions(); !errors.Is(err, domain.ErrConfigInvalid) {
		t.Errorf("StorageOptions() with bad key = %v", err)
	}
}

func TestRequestTimeoutAndLogger(t *testing.T) {
	cfg := Default()
	cfg.Timeout = "5s"
	cfg.Log.Level = "debug"
	cfg.Log.Format = "json"

	if got := cfg.RequestTimeout(); got != 5*time.Second {
		t.Errorf("RequestTimeout() = %v", got)
	}
	lc := cfg.LoggerConfig()
	if lc.Level != "debug" || lc.Format != "json" || lc.Output == nil {
		t.Errorf("LoggerConfig() = %+v", lc)
	}

	cfg.Timeout = "bogus"
	if got := cfg.RequestTimeout(); got != 0 {
		t.Errorf("RequestTimeout() = %v, want 0", got)
	}
}
