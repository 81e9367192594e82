package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/dgraph-io/badger/v3"
	"github.com/prometheus/client_golang/prometheus"
)

// BadgerKV implements KV on an embedded Badger database.
type BadgerKV struct {
	db     *badger.DB
	logger *slog.Logger
	closed atomic.Bool
}

// NewBadgerKV opens (or creates) a Badger database in cfg.Dir.
func NewBadgerKV(cfg Config, logger *slog.Logger) (*BadgerKV, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("badger: dir is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	bcfg := cfg.Badger
	def := DefaultBadgerConfig()
	if bcfg.ValueLogFileSize <= 0 {
		bcfg.ValueLogFileSize = def.ValueLogFileSize
	}
	if bcfg.MemTableSize <= 0 {
		bcfg.MemTableSize = def.MemTableSize
	}

	opts := badger.DefaultOptions(cfg.Dir)
	opts.Logger = &badgerLogger{logger: logger}
	opts.SyncWrites = bcfg.SyncWrites
	opts.ValueLogFileSize = bcfg.ValueLogFileSize
	opts.MemTableSize = bcfg.MemTableSize
	opts.NumVersionsToKeep = 1

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open db: %w", err)
	}

	logger.Debug("badger store opened", "dir", cfg.Dir, "sync_writes", bcfg.SyncWrites)

	return &BadgerKV{db: db, logger: logger}, nil
}

// Get retrieves a value by key.
func (b *BadgerKV) Get(ctx context.Context, key string) (string, error) {
	if b.closed.Load() {
		return "", ErrClosed
	}

	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrKeyNotFound
			}
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return "", err
	}
	return string(value), nil
}

// Set stores a key-value pair.
func (b *BadgerKV) Set(ctx context.Context, key, value string) error {
	if b.closed.Load() {
		return ErrClosed
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
}

// Remove deletes a key.
func (b *BadgerKV) Remove(ctx context.Context, key string) error {
	if b.closed.Load() {
		return ErrClosed
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// RegisterMetrics registers LSM and value log size gauges. Sizes are read
// from Badger at gather time.
func (b *BadgerKV) RegisterMetrics(reg prometheus.Registerer) error {
	lsm := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "taskdeck",
		Subsystem: "badger",
		Name:      "lsm_size_bytes",
		Help:      "Badger LSM tree size in bytes",
	}, func() float64 {
		size, _ := b.db.Size()
		return float64(size)
	})

	vlog := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "taskdeck",
		Subsystem: "badger",
		Name:      "value_log_size_bytes",
		Help:      "Badger value log size in bytes",
	}, func() float64 {
		_, size := b.db.Size()
		return float64(size)
	})

	for _, c := range []prometheus.Collector{lsm, vlog} {
		if err := reg.Register(c); err != nil {
			return fmt.Errorf("badger: register metrics: %w", err)
		}
	}
	return nil
}

// Close runs a final value log GC pass and closes the database.
func (b *BadgerKV) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}

	if err := b.db.RunValueLogGC(0.5); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
		b.logger.Debug("badger value log gc skipped", "error", err)
	}

	if err := b.db.Close(); err != nil {
		return fmt.Errorf("badger: close db: %w", err)
	}
	return nil
}

// badgerLogger adapts slog.Logger to Badger's Logger interface.
// Badger is chatty at info level, so info is demoted to debug.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
