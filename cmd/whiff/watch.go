package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/jparkin/whiff/internal/output"
	"github.com/jparkin/whiff/internal/scan"
	"github.com/jparkin/whiff/internal/watch"
	"github.com/jparkin/whiff/pkg/engine"
)

func watchCmd() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Watch a directory and report smells on each change",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "debounce",
				Value: 500 * time.Millisecond,
				Usage: "Quiet period before a changed file is re-scanned",
			},
			&cli.StringSliceFlag{
				Name:  "only",
				Usage: "Run only these smells (repeatable)",
			},
		},
		Action: runWatch,
	}
}

func runWatch(c *cli.Context) error {
	cfg, err := loadCLIConfig(c)
	if err != nil {
		return err
	}

	smells, err := scan.SelectSmells(c.StringSlice("only"), nil)
	if err != nil {
		return err
	}

	root := "."
	if c.Args().Len() > 0 {
		root = c.Args().First()
	}

	eng := engine.New(cfg, engine.WithSmells(smells))

	w, err := watch.New(root, cfg, c.Duration("debounce"))
	if err != nil {
		return err
	}
	defer w.Stop()

	w.SetCallback(func(path string) {
		source, err := os.ReadFile(path)
		if err != nil {
			color.Red("%s: %v", path, err)
			return
		}
		results, err := eng.Detect(source, path)
		if err != nil {
			color.Red("%s: %v", path, err)
			return
		}

		color.Yellow("\n%s changed:", path)
		if len(results) == 0 {
			color.Green("  no smells")
			return
		}
		for _, r := range results {
			severity := output.SeverityColor(string(r.Severity), string(r.Severity))
			fmt.Printf("  %s:%d-%d  %s [%s] %s\n",
				r.FilePath, r.LineStart, r.LineEnd, r.Type, severity, r.Message)
		}
	})

	color.Cyan("Watching for changes in %s...", root)
	color.Cyan("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = w.Start(ctx)
	if err == context.Canceled {
		return nil
	}
	return err
}
