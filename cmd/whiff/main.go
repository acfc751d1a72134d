package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "whiff",
		Usage:   "Python code smell detection CLI",
		Version: version,
		Description: `Whiff scans Python source for structural code smells: long methods,
god classes, duplicated code, large parameter lists, magic numbers,
and feature envy.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"WHIFF_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			scanCmd(),
			watchCmd(),
			configCmd(),
			mcpCmd(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}
