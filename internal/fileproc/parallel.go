// Package fileproc provides concurrent file processing with a
// dedicated parser per worker.
package fileproc

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/jparkin/whiff/pkg/parser"
)

// ProcessingError is a failure tied to one file.
type ProcessingError struct {
	Path string
	Err  error
}

func (e ProcessingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// ProcessingErrors collects per-file failures across workers.
type ProcessingErrors struct {
	Errors []ProcessingError
	mu     sync.Mutex
}

// Add appends an error. Safe for concurrent use.
func (e *ProcessingErrors) Add(path string, err error) {
	e.mu.Lock()
	e.Errors = append(e.Errors, ProcessingError{Path: path, Err: err})
	e.mu.Unlock()
}

// HasErrors reports whether any file failed.
func (e *ProcessingErrors) HasErrors() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.Errors) > 0
}

func (e *ProcessingErrors) Error() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch len(e.Errors) {
	case 0:
		return "no errors"
	case 1:
		return e.Errors[0].Error()
	default:
		return fmt.Sprintf("%d files failed to process (first: %v)", len(e.Errors), e.Errors[0])
	}
}

// DefaultWorkerMultiplier scales NumCPU to the worker count. Parsing is
// a mix of I/O and CGO work, so 2x keeps the cores busy.
const DefaultWorkerMultiplier = 2

// ProgressFunc is called once per finished file.
type ProgressFunc func()

// MapFiles processes files in parallel, giving fn a dedicated parser.
// Tree-sitter parsers are not safe for concurrent use, so each worker
// invocation gets its own. Failed files are recorded, not fatal.
func MapFiles[T any](files []string, fn func(*parser.Parser, string) (T, error)) ([]T, *ProcessingErrors) {
	return MapFilesWithProgress(files, fn, nil)
}

// MapFilesWithProgress is MapFiles with a progress callback.
func MapFilesWithProgress[T any](files []string, fn func(*parser.Parser, string) (T, error), onProgress ProgressFunc) ([]T, *ProcessingErrors) {
	return mapFiles(context.Background(), files, 0, fn, onProgress)
}

// MapFilesCtx is MapFiles with cancellation: files not yet started when
// the context is canceled are recorded as context errors.
func MapFilesCtx[T any](ctx context.Context, files []string, fn func(*parser.Parser, string) (T, error)) ([]T, *ProcessingErrors) {
	return mapFiles(ctx, files, 0, fn, nil)
}

func mapFiles[T any](ctx context.Context, files []string, maxWorkers int, fn func(*parser.Parser, string) (T, error), onProgress ProgressFunc) ([]T, *ProcessingErrors) {
	if len(files) == 0 {
		return nil, nil
	}
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU() * DefaultWorkerMultiplier
	}

	results := make([]T, 0, len(files))
	errs := &ProcessingErrors{}
	var mu sync.Mutex

	p := pool.New().WithMaxGoroutines(maxWorkers)
	for _, path := range files {
		p.Go(func() {
			if onProgress != nil {
				defer onProgress()
			}

			if err := ctx.Err(); err != nil {
				errs.Add(path, err)
				return
			}

			psr := parser.New()
			defer psr.Close()

			result, err := fn(psr, path)
			if err != nil {
				errs.Add(path, err)
				return
			}

			mu.Lock()
			results = append(results, result)
			mu.Unlock()
		})
	}
	p.Wait()

	if !errs.HasErrors() {
		return results, nil
	}
	return results, errs
}
