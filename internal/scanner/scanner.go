// Package scanner discovers Python source files for analysis.
package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/jparkin/whiff/pkg/config"
)

var pythonExts = map[string]bool{
	".py":  true,
	".pyw": true,
	".pyi": true,
}

// IsPythonFile reports whether the path has a Python source extension.
func IsPythonFile(path string) bool {
	return pythonExts[strings.ToLower(filepath.Ext(path))]
}

// Scanner finds Python files under a root, honoring the configured
// exclusions plus any .gitignore files in the tree.
type Scanner struct {
	config  *config.Config
	matcher gitignore.Matcher
}

// New creates a scanner. A nil config falls back to defaults.
func New(cfg *config.Config) *Scanner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Scanner{config: cfg}
}

// loadIgnorePatterns combines config exclude patterns with .gitignore
// files found under the nearest git root.
func (s *Scanner) loadIgnorePatterns(root string) {
	var patterns []gitignore.Pattern
	for _, p := range s.config.Exclude.Patterns {
		patterns = append(patterns, gitignore.ParsePattern(p, nil))
	}

	if gitRoot := findGitRoot(root); gitRoot != "" {
		bfs := osfs.New(gitRoot)
		if gitPatterns, err := gitignore.ReadPatterns(bfs, nil); err == nil {
			patterns = append(patterns, gitPatterns...)
		}
	}

	if len(patterns) > 0 {
		s.matcher = gitignore.NewMatcher(patterns)
	}
}

func findGitRoot(start string) string {
	dir, err := filepath.Abs(start)
	if err != nil {
		return ""
	}
	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func (s *Scanner) isIgnored(relPath string, isDir bool) bool {
	if s.matcher == nil {
		return false
	}
	return s.matcher.Match(strings.Split(relPath, string(filepath.Separator)), isDir)
}

func (s *Scanner) isExcludedDir(name string) bool {
	for _, d := range s.config.Exclude.Dirs {
		if name == d {
			return true
		}
	}
	return false
}

// ScanDir walks a directory tree and returns every Python file that
// survives the exclusion rules, sorted for stable output.
func (s *Scanner) ScanDir(root string) ([]string, error) {
	s.loadIgnorePatterns(root)

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		relPath, relErr := filepath.Rel(root, path)
		if relErr != nil {
			relPath = path
		}

		if d.IsDir() {
			if path != root && (s.isExcludedDir(d.Name()) || s.isIgnored(relPath, true)) {
				return filepath.SkipDir
			}
			return nil
		}

		if !IsPythonFile(path) {
			return nil
		}
		if s.config.ShouldExclude(relPath) || s.isIgnored(relPath, false) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// ScanPath accepts either a single Python file or a directory root.
func (s *Scanner) ScanPath(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return s.ScanDir(path)
	}
	if !IsPythonFile(path) {
		return nil, nil
	}
	return []string{path}, nil
}
