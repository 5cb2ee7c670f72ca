// Package logic implements the core run orchestration for the commands.
package logic

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jviki/xxtea/internal/config"
	"github.com/jviki/xxtea/internal/encryption"
	"github.com/jviki/xxtea/internal/filter"
)

// Run executes an encrypt or decrypt invocation end to end: key loading,
// file resolution, then the processing pipeline.
func Run(cfg *config.Config) error {
	start := time.Now()

	// The key is loaded and validated before any input file is touched.
	// A bad key therefore fails the run up front, even in dry mode.
	proc, err := encryption.NewProcessor(cfg)
	if err != nil {
		return fmt.Errorf("creating processor: %w", err)
	}

	scanned, err := resolveFiles(cfg)
	if err != nil {
		return err
	}

	excluded := scanned - len(cfg.Files)

	if cfg.Output != "" && len(cfg.Files) > 1 {
		return fmt.Errorf("--output requires a single input file, got %d", len(cfg.Files))
	}

	if cfg.Dry {
		dryRun(cfg, scanned, excluded, start)

		return nil
	}

	processed, errored, totalSize, err := proc.ProcessFiles()

	if cfg.Stats {
		printStats(scanned, excluded, processed, errored, totalSize, time.Since(start))
	}

	if err != nil {
		return fmt.Errorf("running pipeline: %w", err)
	}

	return nil
}

// resolveFiles expands positional args, merges pattern sources and applies
// include/exclude filtering. Returns the total number of files scanned
// before filtering.
func resolveFiles(cfg *config.Config) (int, error) {
	includes := append([]string{}, cfg.Include...)
	excludes := append([]string{}, cfg.Exclude...)

	if cfg.IncludeFrom != "" {
		patterns, err := filter.LoadPatterns(cfg.IncludeFrom)
		if err != nil {
			return 0, fmt.Errorf("loading include patterns: %w", err)
		}

		includes = append(includes, patterns...)
	}

	if cfg.ExcludeFrom != "" {
		patterns, err := filter.LoadPatterns(cfg.ExcludeFrom)
		if err != nil {
			return 0, fmt.Errorf("loading exclude patterns: %w", err)
		}

		excludes = append(excludes, patterns...)
	}

	if cfg.Decrypt && len(includes) == 0 {
		// Walked directories default to files carrying the encrypt
		// suffix; explicitly named files bypass this.
		includes = append(includes, "**/*"+cfg.EncryptSuffix)
	}

	files, scanned, err := filter.Resolve(cfg.Files, includes, excludes)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return scanned, fmt.Errorf("%w: %v", encryption.ErrMissingInput, err)
		}

		return scanned, fmt.Errorf("filtering files: %w", err)
	}

	cfg.Files = files

	return scanned, nil
}

// dryRun previews what would be processed without opening any input file.
func dryRun(cfg *config.Config, scanned, excluded int, start time.Time) {
	var totalSize int64

	for _, file := range cfg.Files {
		if !cfg.Quiet {
			fmt.Printf("Processed %q -> %q\n", file, outputPath(file, cfg))
		}

		if cfg.Stats {
			if info, err := os.Stat(file); err == nil {
				totalSize += info.Size()
			}
		}
	}

	if cfg.Stats {
		printStats(scanned, excluded, len(cfg.Files), 0, totalSize, time.Since(start))
	}
}

func outputPath(filename string, cfg *config.Config) string {
	if cfg.Output != "" {
		return cfg.Output
	}

	ext := cfg.EncryptSuffix

	if cfg.Decrypt {
		filename = strings.TrimSuffix(filename, cfg.EncryptSuffix)
		ext = cfg.DecryptSuffix
	}

	return filepath.Join(filepath.Dir(filename), filepath.Base(filename)+ext)
}

func printStats(scanned, excluded, processed, errored int, totalSize int64, duration time.Duration) {
	fmt.Fprintf(os.Stderr, "\nStats\n")
	fmt.Fprintf(os.Stderr, "  Scanned:   %d\n", scanned)
	fmt.Fprintf(os.Stderr, "  Excluded:  %d\n", excluded)
	fmt.Fprintf(os.Stderr, "  Processed: %d\n", processed)
	fmt.Fprintf(os.Stderr, "  Errors:    %d\n", errored)
	fmt.Fprintf(os.Stderr, "  Size:      %s\n", humanize.IBytes(uint64(max(0, totalSize))))
	fmt.Fprintf(os.Stderr, "  Duration:  %s\n", duration.Round(time.Millisecond))
}
