package command

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/yndnr/taskdeck-go/internal/cli/api"
	"github.com/yndnr/taskdeck-go/internal/cli/config"
	"github.com/yndnr/taskdeck-go/internal/cli/connection"
	"github.com/yndnr/taskdeck-go/internal/cli/output"
	"github.com/yndnr/taskdeck-go/internal/core/domain"
	"github.com/yndnr/taskdeck-go/internal/core/service"
	"github.com/yndnr/taskdeck-go/internal/infra/buildinfo"
	"github.com/yndnr/taskdeck-go/internal/infra/tlsroots"
	"github.com/yndnr/taskdeck-go/internal/storage"
	"github.com/yndnr/taskdeck-go/internal/telemetry/logger"
	"github.com/yndnr/taskdeck-go/internal/telemetry/metric"
)

const runtimeKey = "taskdeck.runtime"

// Runtime is the state shared by every command run in one process.
type Runtime struct {
	configPath string
	overrides  map[string]any

	mu  sync.Mutex
	cfg *config.CLIConfig

	log     logger.Logger
	metrics *metric.ClientMetrics

	kv      storage.KV
	session *service.SessionStore
	api     *api.Client

	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer

	format output.Format
	wide   bool

	interactive bool
	now         func() time.Time
}

// NewRuntime creates a runtime for cfg. Nothing is opened until a command
// needs it.
func NewRuntime(cfg *config.CLIConfig, configPath string, overrides map[string]any) (*Runtime, error) {
	log, err := logger.New(cfg.LoggerConfig())
	if err != nil {
		return nil, err
	}
	logger.SetDefault(log)

	return &Runtime{
		configPath: configPath,
		overrides:  overrides,
		cfg:        cfg,
		log:        log,
		metrics:    metric.New(),
		in:         bufio.NewReader(os.Stdin),
		out:        os.Stdout,
		errOut:     os.Stderr,
		format:     output.FormatTable,
		now:        time.Now,
	}, nil
}

// SetIO replaces the streams commands read from and write to.
func (rt *Runtime) SetIO(in io.Reader, out, errOut io.Writer) {
	rt.in = bufio.NewReader(in)
	rt.out = out
	rt.errOut = errOut
}

// Config returns a copy of the current configuration.
func (rt *Runtime) Config() config.CLIConfig {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return *rt.cfg
}

// ConfigPath returns the config file in use.
func (rt *Runtime) ConfigPath() string {
	if rt.configPath == "" {
		return config.DefaultConfigPath()
	}
	return rt.configPath
}

// Metrics returns the request metrics of this process.
func (rt *Runtime) Metrics() *metric.ClientMetrics {
	return rt.metrics
}

// Session opens storage and restores the persisted session on first use.
func (rt *Runtime) Session(ctx context.Context) (*service.SessionStore, error) {
	if rt.session != nil {
		return rt.session, nil
	}

	cfg := rt.Config()
	if err := config.Verify(&cfg); err != nil {
		return nil, err
	}
	sc, err := cfg.StorageOptions()
	if err != nil {
		return nil, err
	}

	kv, err := storage.Open(ctx, sc, logger.Slog(rt.log))
	if err != nil {
		return nil, domain.ErrStorage.WithDetails("open " + sc.Engine).WithCause(err)
	}
	rt.registerStorageMetrics(kv)

	session := service.NewSessionStore(kv, rt.log)
	if err := session.Initialize(ctx); err != nil {
		kv.Close()
		return nil, err
	}
	if session.Current().Authenticated() {
		rt.metrics.SessionEvent("restore")
	}

	rt.kv = kv
	rt.session = session
	return session, nil
}

func (rt *Runtime) registerStorageMetrics(kv storage.KV) {
	if enc, ok := kv.(*storage.EncryptedKV); ok {
		kv = enc.Unwrap()
	}
	if b, ok := kv.(*storage.BadgerKV); ok {
		if err := b.RegisterMetrics(rt.metrics.Registry()); err != nil {
			rt.log.Debug("badger metrics not registered", "error", err)
		}
	}
}

// API returns the task API client, attaching the session's token.
func (rt *Runtime) API(ctx context.Context) (*api.Client, error) {
	if rt.api != nil {
		return rt.api, nil
	}

	session, err := rt.Session(ctx)
	if err != nil {
		return nil, err
	}

	cfg := rt.Config()
	tlsConfig, err := tlsroots.LoadClientConfig(cfg.TLS.CAFile)
	if err != nil {
		return nil, domain.ErrConfigInvalid.WithDetails("tls.ca_file").WithCause(err)
	}

	httpClient := connection.NewHTTPClient(cfg.Server, session, connection.Options{
		Timeout:   cfg.RequestTimeout(),
		TLSConfig: tlsConfig,
		RPS:       cfg.RateLimit.RPS,
		Burst:     cfg.RateLimit.Burst,
		Metrics:   rt.metrics,
		Logger:    rt.log,
		UserAgent: "taskdeck/" + buildinfo.Version,
	})
	rt.api = api.New(httpClient)
	return rt.api, nil
}

// RequireLogin returns the current session, or ErrNotLoggedIn.
func (rt *Runtime) RequireLogin(ctx context.Context) (service.SessionState, error) {
	session, err := rt.Session(ctx)
	if err != nil {
		return service.SessionState{}, err
	}
	state := session.Current()
	if !state.Authenticated() {
		return state, domain.ErrNotLoggedIn.WithDetails("run 'taskdeck login' first")
	}
	return state, nil
}

// Print writes data in the selected output format.
func (rt *Runtime) Print(data any) error {
	return output.NewFormatter(rt.format, rt.wide).Format(rt.out, data)
}

// Printf writes a human-readable line. Machine formats stay clean: the
// line goes to stderr when json or yaml is selected.
func (rt *Runtime) Printf(format string, args ...any) {
	w := rt.out
	if rt.format != output.FormatTable {
		w = rt.errOut
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// Hint writes a suggestion to stderr.
func (rt *Runtime) Hint(format string, args ...any) {
	fmt.Fprintf(rt.errOut, "hint: "+format+"\n", args...)
}

// checkRejected records a server-side rejection of the session and tells
// the user how to recover. The error is returned unchanged.
func (rt *Runtime) checkRejected(err error) error {
	if errors.Is(err, domain.ErrSessionRejected) {
		rt.metrics.SessionEvent("rejected")
		rt.Hint("the server no longer accepts the saved session; run 'taskdeck login' again")
	}
	return err
}

// Reload re-reads the config file and applies the settings that can change
// while running: output format and log level.
func (rt *Runtime) Reload() error {
	cfg, err := config.Load(rt.configPath, rt.overrides)
	if err != nil {
		return err
	}
	if err := config.Verify(cfg); err != nil {
		return err
	}

	rt.mu.Lock()
	prev := *rt.cfg
	rt.cfg.Output = cfg.Output
	rt.cfg.Log = cfg.Log
	rt.mu.Unlock()

	logger.SetLevel(cfg.Log.Level)
	rt.log.Info("configuration reloaded", "output", cfg.Output, "log_level", cfg.Log.Level)
	if cfg.Server != prev.Server || cfg.Storage != prev.Storage {
		rt.log.Warn("server and storage changes take effect after restart")
	}
	return nil
}

// Close releases storage. It is safe to call more than once.
func (rt *Runtime) Close() error {
	if rt.kv == nil {
		return nil
	}
	err := rt.kv.Close()
	rt.kv = nil
	rt.session = nil
	rt.api = nil
	return err
}
