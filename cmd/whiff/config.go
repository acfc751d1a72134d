package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/pelletier/go-toml"
	"github.com/urfave/cli/v2"

	"github.com/jparkin/whiff/pkg/config"
)

func configCmd() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Subcommands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "Write the default configuration to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Value:   "whiff.toml",
						Usage:   "Destination path",
					},
				},
				Action: runConfigGenerate,
			},
			{
				Name:   "show",
				Usage:  "Show the effective configuration",
				Action: runConfigShow,
			},
			{
				Name:   "validate",
				Usage:  "Validate a configuration file",
				Action: runConfigValidate,
			},
		},
	}
}

func runConfigGenerate(c *cli.Context) error {
	dest := c.String("output")
	content, err := toml.Marshal(*config.DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(dest, content, 0644); err != nil {
		return err
	}
	fmt.Printf("Default configuration saved to %s\n", dest)
	return nil
}

func runConfigShow(c *cli.Context) error {
	cfg, err := loadCLIConfig(c)
	if err != nil {
		return err
	}

	content, err := toml.Marshal(*cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Print(string(content))
	return nil
}

func runConfigValidate(c *cli.Context) error {
	path := c.String("config")
	if path == "" {
		color.Yellow("No config file given. Default configuration is valid.")
		return nil
	}

	if _, err := config.Load(path); err != nil {
		color.Red("Configuration validation failed:")
		fmt.Printf("  - %s\n", err)
		return err
	}
	color.Green("Configuration valid: %s", path)
	return nil
}
