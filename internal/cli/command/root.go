package command

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/taskdeck-go/internal/cli/config"
	"github.com/yndnr/taskdeck-go/internal/cli/output"
	"github.com/yndnr/taskdeck-go/internal/infra/buildinfo"
	"github.com/yndnr/taskdeck-go/internal/telemetry/logger"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:     "taskdeck",
		Usage:    "Manage your tasks from the terminal",
		Version:  buildinfo.String(),
		Flags:    globalFlags(),
		Suggest:  true,
		Metadata: map[string]any{},
		Commands: []*cli.Command{
			LoginCommand(),
			RegisterCommand(),
			LogoutCommand(),
			WhoamiCommand(),
			TaskCommand(),
			ConfigCommand(),
			StatsCommand(),
			VersionCommand(),
			ReplCommand(),
		},
		Before: before,
		After:  after,
		Action: func(c *cli.Context) error {
			if c.NArg() > 0 {
				return fmt.Errorf("unknown command %q", c.Args().First())
			}
			return runRepl(c)
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Config file (default ~/.taskdeck/cli.yaml)",
		},
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "Task API base URL",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.StringFlag{
			Name:  "timeout",
			Usage: "Request timeout, e.g. 10s",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Log debug output to stderr",
		},
	}
}

// flagOverrides maps explicitly set global flags onto config keys.
func flagOverrides(c *cli.Context) map[string]any {
	overrides := map[string]any{}
	for flag, key := range map[string]string{
		"server":  "server",
		"output":  "output",
		"timeout": "timeout",
	} {
		if c.IsSet(flag) {
			overrides[key] = c.String(flag)
		}
	}
	if c.Bool("verbose") {
		overrides["log.level"] = "debug"
	}
	return overrides
}

func before(c *cli.Context) error {
	rt, ok := c.App.Metadata[runtimeKey].(*Runtime)
	if !ok {
		cfg, err := config.Load(c.String("config"), flagOverrides(c))
		if err != nil {
			return err
		}
		rt, err = NewRuntime(cfg, c.String("config"), flagOverrides(c))
		if err != nil {
			return err
		}
		c.App.Metadata[runtimeKey] = rt
	}
	return rt.begin(c)
}

// begin applies the per-invocation flags. In the REPL this runs for every
// line, so a line may pick its own --output.
func (rt *Runtime) begin(c *cli.Context) error {
	format := rt.Config().Output
	if c.IsSet("output") {
		format = c.String("output")
	}
	f, err := output.ParseFormat(format)
	if err != nil {
		return err
	}
	rt.format = f
	rt.wide = c.Bool("wide")

	if c.Bool("verbose") {
		logger.SetLevel("debug")
	}

	if c.Context != nil {
		c.Context = logger.WithLogger(c.Context, rt.log)
	}
	return nil
}

func after(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil || rt.interactive {
		return nil
	}
	return rt.Close()
}

func runtimeFrom(c *cli.Context) (*Runtime, error) {
	if rt, ok := c.App.Metadata[runtimeKey].(*Runtime); ok {
		return rt, nil
	}
	return nil, errors.New("command runtime not initialized")
}

// UseRuntime installs rt so the next Run skips config loading.
func UseRuntime(app *cli.App, rt *Runtime) {
	if app.Metadata == nil {
		app.Metadata = map[string]any{}
	}
	app.Metadata[runtimeKey] = rt
}
