package fileproc

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jparkin/whiff/pkg/parser"
)

func TestMapFilesProcessesAll(t *testing.T) {
	files := make([]string, 20)
	for i := range files {
		files[i] = fmt.Sprintf("file%02d.py", i)
	}

	results, errs := MapFiles(files, func(_ *parser.Parser, path string) (string, error) {
		return path, nil
	})
	require.Nil(t, errs)
	require.Len(t, results, len(files))

	sort.Strings(results)
	assert.Equal(t, files, results)
}

func TestMapFilesEmptyInput(t *testing.T) {
	results, errs := MapFiles(nil, func(_ *parser.Parser, path string) (int, error) {
		return 0, nil
	})
	assert.Nil(t, results)
	assert.Nil(t, errs)
}

func TestMapFilesCollectsErrors(t *testing.T) {
	files := []string{"ok.py", "bad.py", "also_ok.py"}

	results, errs := MapFiles(files, func(_ *parser.Parser, path string) (string, error) {
		if path == "bad.py" {
			return "", errors.New("boom")
		}
		return path, nil
	})
	require.NotNil(t, errs)
	assert.True(t, errs.HasErrors())
	require.Len(t, errs.Errors, 1)
	assert.Equal(t, "bad.py", errs.Errors[0].Path)
	assert.Len(t, results, 2)
}

func TestMapFilesParserIsUsable(t *testing.T) {
	files := []string{"a.py", "b.py", "c.py"}

	results, errs := MapFiles(files, func(psr *parser.Parser, path string) (int, error) {
		unit, err := psr.Parse([]byte("def f():\n    pass\n"), path)
		if err != nil {
			return 0, err
		}
		return len(unit.Functions()), nil
	})
	require.Nil(t, errs)
	require.Len(t, results, 3)
	for _, n := range results {
		assert.Equal(t, 1, n)
	}
}

func TestMapFilesWithProgress(t *testing.T) {
	files := []string{"a.py", "b.py", "c.py", "d.py"}
	var ticks atomic.Int64

	_, errs := MapFilesWithProgress(files, func(_ *parser.Parser, path string) (struct{}, error) {
		return struct{}{}, nil
	}, func() { ticks.Add(1) })
	require.Nil(t, errs)
	assert.Equal(t, int64(len(files)), ticks.Load())
}

func TestMapFilesCtxCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	files := []string{"a.py", "b.py"}
	results, errs := MapFilesCtx(ctx, files, func(_ *parser.Parser, path string) (string, error) {
		return path, nil
	})
	assert.Empty(t, results)
	require.NotNil(t, errs)
	assert.Len(t, errs.Errors, len(files))
}

func TestProcessingErrorsMessages(t *testing.T) {
	errs := &ProcessingErrors{}
	assert.False(t, errs.HasErrors())
	assert.Equal(t, "no errors", errs.Error())

	errs.Add("a.py", errors.New("boom"))
	assert.Equal(t, "a.py: boom", errs.Error())

	errs.Add("b.py", errors.New("bang"))
	assert.Contains(t, errs.Error(), "2 files failed")
}
