package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/taskdeck-go/internal/cli/output"
	"github.com/yndnr/taskdeck-go/internal/infra/buildinfo"
)

// VersionCommand prints build information.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show build information",
		Action: func(c *cli.Context) error {
			rt, err := runtimeFrom(c)
			if err != nil {
				return err
			}
			return rt.Print(buildinfo.Get())
		},
	}
}

// StatsCommand prints the request metrics collected by this process.
func StatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show request statistics for this session (most useful in the REPL)",
		Action: func(c *cli.Context) error {
			rt, err := runtimeFrom(c)
			if err != nil {
				return err
			}

			samples, err := rt.Metrics().Snapshot()
			if err != nil {
				return err
			}
			if len(samples) == 0 && rt.format == output.FormatTable {
				rt.Printf("No requests yet")
				return nil
			}
			return rt.Print(samples)
		},
	}
}
