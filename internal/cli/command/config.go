package command

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/taskdeck-go/internal/cli/config"
	"github.com/yndnr/taskdeck-go/internal/cli/output"
)

const redacted = "***REDACTED***"

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Local CLI configuration",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration",
				Action: configShow,
			},
			{
				Name:   "validate",
				Usage:  "Check the effective configuration",
				Action: configValidate,
			},
			{
				Name:  "init",
				Usage: "Write the effective configuration to the config file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Overwrite an existing file",
					},
				},
				Action: configInit,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}

	cfg := rt.Config()
	if cfg.Storage.EncryptionKey != "" {
		cfg.Storage.EncryptionKey = redacted
	}
	if cfg.Storage.Redis.Password != "" {
		cfg.Storage.Redis.Password = redacted
	}

	if rt.format == output.FormatTable {
		rt.Printf("# %s", rt.ConfigPath())
		return rt.Print(config.Flatten(&cfg))
	}
	return rt.Print(cfg)
}

func configValidate(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}

	cfg := rt.Config()
	if err := config.Verify(&cfg); err != nil {
		return err
	}

	path := rt.ConfigPath()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		rt.Printf("Configuration is valid (no file at %s, using defaults)", path)
		return nil
	}
	rt.Printf("Configuration is valid: %s", path)
	return nil
}

func configInit(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}

	path := rt.ConfigPath()
	if _, err := os.Stat(path); err == nil && !c.Bool("force") {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	cfg := rt.Config()
	if err := config.Verify(&cfg); err != nil {
		return err
	}
	if err := config.Save(&cfg, path); err != nil {
		return err
	}
	rt.Printf("Wrote %s", path)
	return nil
}
