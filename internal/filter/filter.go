// Package filter expands positional arguments into the set of files to
// process, applying doublestar include/exclude patterns to walked
// directories.
package filter

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter holds validated include and exclude patterns.
// Empty includes means "match all". Excludes always win.
type Filter struct {
	includes []string
	excludes []string
}

// New validates the patterns and returns a reusable Filter.
func New(includes, excludes []string) (*Filter, error) {
	includes = normalizePatterns(includes)
	excludes = normalizePatterns(excludes)

	for _, p := range includes {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid include pattern %q", p)
		}
	}

	for _, p := range excludes {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid exclude pattern %q", p)
		}
	}

	return &Filter{includes: includes, excludes: excludes}, nil
}

// Match reports whether the slash-separated path passes the filter.
func (f *Filter) Match(path string) bool {
	if len(f.includes) > 0 && !matchAny(f.includes, path) {
		return false
	}

	return !matchAny(f.excludes, path)
}

func matchAny(patterns []string, path string) bool {
	for _, p := range patterns {
		// Patterns are validated in New, so Match cannot fail here.
		if ok, _ := doublestar.Match(p, path); ok {
			return true
		}
	}

	return false
}

// normalizePatterns strips leading "./" from patterns so they match cleaned paths.
func normalizePatterns(patterns []string) []string {
	out := make([]string, len(patterns))
	for i, p := range patterns {
		out[i] = strings.TrimPrefix(p, "./")
	}

	return out
}

// Resolve takes positional args (files or directories) and include/exclude
// patterns. Explicit files are added directly, bypassing filtering.
// Directories are walked recursively and filtered.
// Returns the matched files and the total number of candidates scanned.
func Resolve(args, includes, excludes []string) (files []string, scanned int, err error) {
	flt, err := New(includes, excludes)
	if err != nil {
		return nil, 0, err
	}

	seen := make(map[string]struct{})

	for _, arg := range args {
		arg = filepath.Clean(arg)

		info, err := os.Stat(arg)
		if err != nil {
			return nil, scanned, fmt.Errorf("stat %q: %w", arg, err)
		}

		if !info.IsDir() {
			scanned++

			if _, ok := seen[arg]; ok {
				continue
			}

			seen[arg] = struct{}{}
			files = append(files, arg)

			continue
		}

		walked, total, err := walkDir(arg, flt)
		if err != nil {
			return nil, scanned, err
		}

		scanned += total

		for _, path := range walked {
			if _, ok := seen[path]; ok {
				continue
			}

			seen[path] = struct{}{}
			files = append(files, path)
		}
	}

	if len(files) == 0 {
		return nil, scanned, fmt.Errorf("no files matched the provided patterns: %v", args)
	}

	return files, scanned, nil
}

// walkDir walks root recursively, returning the files that pass the filter.
func walkDir(root string, flt *Filter) (files []string, total int, err error) {
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		total++

		// Forward slashes regardless of platform, for pattern matching.
		clean := filepath.ToSlash(filepath.Clean(path))

		if !flt.Match(clean) {
			return nil
		}

		files = append(files, path)

		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("walking %q: %w", root, err)
	}

	return files, total, nil
}
