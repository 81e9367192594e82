package command

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/taskdeck-go/internal/cli/config"
	"github.com/yndnr/taskdeck-go/internal/cli/repl"
	"github.com/yndnr/taskdeck-go/internal/infra/confloader"
	"github.com/yndnr/taskdeck-go/internal/telemetry/logger"
)

// ReplCommand starts interactive mode. Running taskdeck without arguments
// does the same.
func ReplCommand() *cli.Command {
	return &cli.Command{
		Name:   "repl",
		Usage:  "Start interactive mode",
		Action: runRepl,
	}
}

// CommandNames lists every command path of app, e.g. "task list".
func CommandNames(app *cli.App) []string {
	var names []string
	var walk func(prefix string, cmds []*cli.Command)
	walk = func(prefix string, cmds []*cli.Command) {
		for _, cmd := range cmds {
			if cmd.Hidden {
				continue
			}
			name := cmd.Name
			if prefix != "" {
				name = prefix + " " + cmd.Name
			}
			names = append(names, name)
			walk(name, cmd.Subcommands)
		}
	}
	walk("", app.Commands)
	return names
}

func runRepl(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	if rt.interactive {
		return errors.New("already in interactive mode")
	}
	rt.interactive = true
	defer func() { rt.interactive = false }()

	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}

	history := repl.NewHistory(config.DefaultHistoryPath(), 0)
	if err := history.Load(); err != nil {
		rt.log.Warn("history not loaded", "error", err)
	}
	defer func() {
		if err := history.Save(); err != nil {
			rt.log.Warn("history not saved", "error", err)
		}
	}()

	if stop := rt.watchConfig(); stop != nil {
		defer stop()
	}

	app := c.App
	r := repl.New(repl.Options{
		In:        rt.in,
		Out:       rt.out,
		History:   history,
		Completer: repl.NewCompleter(CommandNames(app)),
		Exec: func(ctx context.Context, args []string) error {
			return app.RunContext(ctx, append([]string{app.Name}, args...))
		},
	})

	rt.Printf("taskdeck %s. Type 'help' for commands, 'exit' to leave, end a line with '?' to complete.", app.Version)
	return r.Run(ctx)
}

// watchConfig reloads the config file when it changes. It returns nil when
// the file's directory does not exist.
func (rt *Runtime) watchConfig() func() {
	path := rt.ConfigPath()
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		return nil
	}

	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(logger.Slog(rt.log)))
	if err != nil {
		rt.log.Warn("config watcher unavailable", "error", err)
		return nil
	}
	if err := w.Watch(path); err != nil {
		w.Stop()
		return nil
	}
	w.OnChange(func(string) {
		if err := rt.Reload(); err != nil {
			rt.log.Warn("config reload failed", "error", err)
		}
	})
	w.StartAsync()
	return func() { w.Stop() }
}
