// Package scan orchestrates file discovery, parallel detection, and
// result caching for a set of paths.
package scan

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/jparkin/whiff/internal/cache"
	"github.com/jparkin/whiff/internal/fileproc"
	"github.com/jparkin/whiff/internal/scanner"
	"github.com/jparkin/whiff/pkg/config"
	"github.com/jparkin/whiff/pkg/engine"
	"github.com/jparkin/whiff/pkg/models"
	"github.com/jparkin/whiff/pkg/parser"
)

// Runner ties the scanner, engine, and cache together for scan runs.
type Runner struct {
	cfg    *config.Config
	engine *engine.Engine
	cache  *cache.Cache
}

// Option is a functional option for configuring Runner.
type Option func(*options)

type options struct {
	smells  models.SmellSet
	noCache bool
}

// WithSmells restricts the run to the given smells.
func WithSmells(set models.SmellSet) Option {
	return func(o *options) {
		o.smells = set
	}
}

// WithoutCache disables the result cache for this runner.
func WithoutCache() Option {
	return func(o *options) {
		o.noCache = true
	}
}

// NewRunner builds a runner from configuration.
func NewRunner(cfg *config.Config, opts ...Option) (*Runner, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	c, err := cache.New(cfg.Cache.Dir, cfg.Cache.TTL, cfg.Cache.Enabled && !o.noCache)
	if err != nil {
		return nil, err
	}

	return &Runner{
		cfg:    cfg,
		engine: engine.New(cfg, engine.WithSmells(o.smells)),
		cache:  c,
	}, nil
}

// SelectSmells converts --only/--exclude style selections into a smell
// set, rejecting unknown names. Both empty means no restriction.
func SelectSmells(only, exclude []string) (models.SmellSet, error) {
	for _, name := range append(append([]string{}, only...), exclude...) {
		if !models.KnownSmell(models.SmellType(name)) {
			return nil, fmt.Errorf("unknown smell %q", name)
		}
	}

	if len(only) > 0 {
		set := make(models.SmellSet, len(only))
		for _, name := range only {
			set[models.SmellType(name)] = true
		}
		return set, nil
	}
	if len(exclude) > 0 {
		set := make(models.SmellSet, len(models.AllSmells))
		for _, smell := range models.AllSmells {
			set[smell] = true
		}
		for _, name := range exclude {
			set[models.SmellType(name)] = false
		}
		return set, nil
	}
	return nil, nil
}

// Result is the outcome of one scan run.
type Result struct {
	Results       []models.SmellResult
	FilesAnalyzed int
	Errors        *fileproc.ProcessingErrors
}

// ScanPaths discovers Python files under each path and runs detection
// over them in parallel. Results are ordered by file path, and within a
// file by detector registration order, so repeated runs produce
// identical output.
func (r *Runner) ScanPaths(ctx context.Context, paths []string, onProgress func(total int) fileproc.ProgressFunc) (*Result, error) {
	sc := scanner.New(r.cfg)
	var files []string
	for _, p := range paths {
		found, err := sc.ScanPath(p)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	sort.Strings(files)

	var progress fileproc.ProgressFunc
	if onProgress != nil {
		progress = onProgress(len(files))
	}

	type fileResult struct {
		path    string
		results []models.SmellResult
	}

	fingerprint := r.cfg.Fingerprint()
	perFile, errs := fileproc.MapFilesWithProgress(files, func(psr *parser.Parser, path string) (fileResult, error) {
		if err := ctx.Err(); err != nil {
			return fileResult{}, err
		}

		source, err := os.ReadFile(path)
		if err != nil {
			return fileResult{}, err
		}

		contentHash := cache.HashBytes(source)
		if cached, ok := r.cache.Get(path, contentHash, fingerprint); ok {
			return fileResult{path: path, results: cached}, nil
		}

		unit, err := psr.Parse(source, path)
		if err != nil {
			return fileResult{}, err
		}
		results := r.engine.DetectUnit(unit)

		// Cache failures are not fatal; the scan result stands.
		_ = r.cache.Set(path, contentHash, fingerprint, results)

		return fileResult{path: path, results: results}, nil
	}, progress)

	sort.Slice(perFile, func(i, j int) bool {
		return perFile[i].path < perFile[j].path
	})

	out := &Result{FilesAnalyzed: len(files), Errors: errs}
	for _, fr := range perFile {
		out.Results = append(out.Results, fr.results...)
	}
	return out, nil
}
