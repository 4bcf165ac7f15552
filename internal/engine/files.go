package engine

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome for one file.
type Result struct {
	Path    string
	Changed bool
	// Skipped is set when the cache already knew the file to be clean
	Skipped bool
	Err     error
}

// Summary aggregates the results of a run, sorted by path.
type Summary struct {
	Results []Result
}

// Changed returns the paths that were rewritten.
func (s *Summary) Changed() []string {
	var out []string
	for _, r := range s.Results {
		if r.Changed {
			out = append(out, r.Path)
		}
	}
	return out
}

// Skipped returns the number of files answered from the cache.
func (s *Summary) Skipped() int {
	n := 0
	for _, r := range s.Results {
		if r.Skipped {
			n++
		}
	}
	return n
}

// Failed returns the results that carry an error.
func (s *Summary) Failed() []Result {
	var out []Result
	for _, r := range s.Results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}

// ExitCode returns 1 if any file failed, or if any file changed and
// exitZeroIfChanged is false.
func (s *Summary) ExitCode(exitZeroIfChanged bool) int {
	if len(s.Failed()) > 0 {
		return 1
	}
	if len(s.Changed()) > 0 && !exitZeroIfChanged {
		return 1
	}
	return 0
}

// FixFile rewrites path in place if any plugin changes it.
func (e *Engine) FixFile(path string) (Result, error) {
	res := Result{Path: path}
	info, err := os.Stat(path)
	if err != nil {
		return res, err
	}
	data, err := os.ReadFile(path) //nolint:gosec // G304: paths are supplied by the user
	if err != nil {
		return res, err
	}
	if !utf8.Valid(data) {
		return res, fmt.Errorf("%s is %w", path, ErrNonUTF8)
	}

	var hash string
	if e.cache != nil {
		hash = contentHash(data)
		clean, err := e.cache.Clean(path, hash, e.key)
		if err != nil {
			e.logger.Warn("cache lookup failed", "file", path, "error", err)
		} else if clean {
			res.Skipped = true
			return res, nil
		}
	}

	src := string(data)
	out, err := e.FixSource(path, src)
	if err != nil {
		return res, err
	}
	if out != src {
		if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
			return res, fmt.Errorf("failed to write %s: %w", path, err)
		}
		e.logger.Debug("rewrote file", "file", path)
		res.Changed = true
		hash = contentHash([]byte(out))
	}
	if e.cache != nil {
		if err := e.cache.MarkClean(path, hash, e.key); err != nil {
			e.logger.Warn("cache update failed", "file", path, "error", err)
		}
	}
	return res, nil
}

// FixStream rewrites source read from r and writes the result to w.
func (e *Engine) FixStream(name string, r io.Reader, w io.Writer) (bool, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return false, err
	}
	if !utf8.Valid(data) {
		return false, fmt.Errorf("%s is %w", name, ErrNonUTF8)
	}
	src := string(data)
	out, err := e.FixSource(name, src)
	if err != nil {
		return false, err
	}
	if _, err := io.WriteString(w, out); err != nil {
		return false, err
	}
	return out != src, nil
}

// FixPaths rewrites every file under paths using up to jobs goroutines.
// Per-file failures are recorded in the summary; the returned error is
// non-nil only when ctx is cancelled or a path cannot be listed.
func (e *Engine) FixPaths(ctx context.Context, paths []string, jobs int) (*Summary, error) {
	files, err := e.Expand(paths)
	if err != nil {
		return nil, err
	}
	if jobs <= 0 {
		jobs = 1
	}

	results := make([]Result, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := e.FixFile(file)
			res.Err = err
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return &Summary{Results: results}, nil
}

// Expand resolves directories to the Python files below them and drops
// excluded paths. Hidden directories and __pycache__ are skipped. Explicit
// file arguments are kept whatever their extension.
func (e *Engine) Expand(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(p string) {
		if !seen[p] && !e.Excluded(p) {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				name := d.Name()
				if path != p && (strings.HasPrefix(name, ".") || name == "__pycache__" || e.Excluded(path)) {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasSuffix(path, ".py") || strings.HasSuffix(path, ".pyi") {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", p, err)
		}
	}
	return files, nil
}

// Excluded reports whether path matches one of the exclude patterns, either
// as a whole or by its base name.
func (e *Engine) Excluded(path string) bool {
	slashed := filepath.ToSlash(path)
	base := filepath.Base(path)
	for _, g := range e.exclude {
		if g.Match(slashed) || g.Match(base) {
			return true
		}
	}
	return false
}
