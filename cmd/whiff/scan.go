package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/jparkin/whiff/internal/fileproc"
	"github.com/jparkin/whiff/internal/output"
	"github.com/jparkin/whiff/internal/progress"
	"github.com/jparkin/whiff/internal/scan"
	"github.com/jparkin/whiff/internal/vcs"
	"github.com/jparkin/whiff/pkg/config"
	"github.com/jparkin/whiff/pkg/models"
	"github.com/jparkin/whiff/pkg/report"
)

func scanCmd() *cli.Command {
	return &cli.Command{
		Name:      "scan",
		Usage:     "Scan Python files or directories for code smells",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: table, json, toon",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write report to file",
			},
			&cli.StringSliceFlag{
				Name:  "only",
				Usage: "Run only these smells (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Run all smells except these (repeatable)",
			},
			&cli.StringFlag{
				Name:  "ref",
				Usage: "Scan the repository contents at a git ref instead of the worktree",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Disable result caching",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Print per-file diagnostics to stderr",
			},
		},
		Action: runScan,
	}
}

func getScanPaths(c *cli.Context) []string {
	if c.Args().Len() > 0 {
		return c.Args().Slice()
	}
	return []string{"."}
}

func loadCLIConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	return config.LoadOrDefault(), nil
}

func runScan(c *cli.Context) error {
	cfg, err := loadCLIConfig(c)
	if err != nil {
		return err
	}

	smells, err := scan.SelectSmells(c.StringSlice("only"), c.StringSlice("exclude"))
	if err != nil {
		return err
	}

	active := activeSmells(cfg, smells)
	if len(active) == 0 {
		return fmt.Errorf("no smells enabled for detection")
	}
	if c.Bool("verbose") {
		fmt.Fprintf(os.Stderr, "Enabled detectors: %v\n", active)
	}

	paths := getScanPaths(c)
	if ref := c.String("ref"); ref != "" {
		tmp, err := os.MkdirTemp("", "whiff-ref-")
		if err != nil {
			return err
		}
		defer os.RemoveAll(tmp)

		sha, err := vcs.ExtractRef(".", ref, tmp)
		if err != nil {
			return err
		}
		if c.Bool("verbose") {
			fmt.Fprintf(os.Stderr, "Scanning %s (%s)\n", ref, sha)
		}
		paths = []string{tmp}
	}

	opts := []scan.Option{scan.WithSmells(smells)}
	if c.Bool("no-cache") {
		opts = append(opts, scan.WithoutCache())
	}
	runner, err := scan.NewRunner(cfg, opts...)
	if err != nil {
		return err
	}

	var tracker *progress.Tracker
	onProgress := func(total int) fileproc.ProgressFunc {
		tracker = progress.New("Scanning...", total)
		return tracker.Tick
	}

	start := time.Now()
	result, err := runner.ScanPaths(context.Background(), paths, onProgress)
	if tracker != nil {
		tracker.Done()
	}
	if err != nil {
		return err
	}

	if result.Errors != nil {
		for _, pe := range result.Errors.Errors {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", pe.Path, pe.Err)
		}
	}
	if result.FilesAnalyzed == 0 {
		color.Yellow("No Python files found")
		return nil
	}

	rep := report.Build(result.Results, report.Metadata{
		ScanTimestamp: start,
		Version:       version,
		Paths:         getScanPaths(c),
		FilesAnalyzed: result.FilesAnalyzed,
		ActiveSmells:  active,
		DurationMS:    time.Since(start).Milliseconds(),
	})

	format := cfg.Output.Format
	if c.String("format") != "" {
		format = c.String("format")
	}
	formatter, err := output.NewFormatter(output.ParseFormat(format), c.String("output"), cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(rep)
}

// activeSmells resolves the config toggles and CLI selection to the
// final detector list, in registration order.
func activeSmells(cfg *config.Config, selected models.SmellSet) []string {
	enabled := cfg.EnabledSmells()
	var active []string
	for _, smell := range models.AllSmells {
		if enabled.Enabled(smell) && selected.Enabled(smell) {
			active = append(active, string(smell))
		}
	}
	return active
}
