package encryption

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jviki/xxtea/internal/config"
	"github.com/jviki/xxtea/internal/fileutil"
	"github.com/jviki/xxtea/internal/keyfile"
	"github.com/jviki/xxtea/pkg/btea"
)

const (
	// ownerReadWrite is the base permission for output files.
	ownerReadWrite = 0o600
	// executableBits are carried over from the source file.
	executableBits = 0o111
)

// Processor encrypts or decrypts the configured set of files.
type Processor struct {
	// cfg contains runtime configuration options
	cfg *config.Config

	// cipher is the prepared XXTEA block cipher
	cipher *btea.Cipher

	// results channels processing outcomes to the printer goroutine
	results chan Result
}

// Result represents the outcome of processing a single file.
type Result struct {
	// Input file path
	Input string

	// Output file path
	Output string

	// Output file size in bytes
	OutputSize int64

	// Any error that occurred during processing
	Error error
}

// NewProcessor loads the key material and prepares a processor.
// Key errors surface here, before any input file is touched, so a bad key
// never costs a directory walk or a partial run.
func NewProcessor(cfg *config.Config) (*Processor, error) {
	var (
		key []byte
		err error
	)

	switch {
	case cfg.Key != "":
		key, err = keyfile.Parse(cfg.Key)
	case cfg.KeyFile != "":
		key, err = keyfile.Load(cfg.KeyFile)
	default:
		err = errors.New("no key material provided")
	}

	if err != nil {
		return nil, fmt.Errorf("reading key: %w", err)
	}

	cipher, err := btea.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}

	return &Processor{cfg: cfg, cipher: cipher}, nil
}

// ProcessFiles concurrently processes all files specified in the
// configuration, at most cfg.Parallel at a time. Each file is handled
// start to finish by a single goroutine; a printer goroutine serializes
// the per-file reporting. Returns the number of successfully processed
// files, the number of errors and the total output size.
func (p *Processor) ProcessFiles() (processed, errored int, totalSize int64, err error) {
	// Sized here, after file resolution has replaced any directory
	// arguments with the files they contain.
	p.results = make(chan Result, len(p.cfg.Files))

	group := errgroup.Group{}
	group.SetLimit(p.cfg.Parallel)

	done := make(chan struct{})

	go func() {
		defer close(done)

		for result := range p.results {
			if result.Error != nil {
				errored++

				fmt.Fprintf(os.Stderr, "Error processing %q: %v\n", result.Input, result.Error)

				continue
			}

			processed++
			totalSize += result.OutputSize

			if !p.cfg.Quiet {
				fmt.Printf("Processed %q -> %q\n", result.Input, result.Output)
			}

			if p.cfg.Delete && result.Input != result.Output {
				if err := os.Remove(result.Input); err != nil {
					fmt.Fprintf(os.Stderr, "Error deleting %q: %v\n", result.Input, err)
				} else if !p.cfg.Quiet {
					fmt.Printf("Deleted %q\n", result.Input)
				}
			}
		}
	}()

	for _, file := range p.cfg.Files {
		file := file

		group.Go(func() error {
			outPath := p.outputPath(file)

			size, err := p.processFile(file, outPath)
			if err != nil {
				p.results <- Result{Input: file, Error: err}

				return err
			}

			p.results <- Result{Input: file, Output: outPath, OutputSize: size}

			return nil
		})
	}

	err = group.Wait()

	close(p.results)

	<-done // Wait for printer to finish

	if err != nil {
		return processed, errored, totalSize, fmt.Errorf("processing files: %w", err)
	}

	return processed, errored, totalSize, nil
}

// processFile runs the cipher pipeline for a single file. Output is staged
// in a temporary file and renamed into place only after the whole stream
// has been transformed, so the destination is never left half-written.
func (p *Processor) processFile(filename, outPath string) (size int64, err error) {
	info, err := os.Stat(filename)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMissingInput, filename)
	}

	in, err := os.Open(filepath.Clean(filename))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMissingInput, filename)
	}
	defer in.Close()

	out, err := fileutil.NewAtomicFile(outPath)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrOutputCreate, outPath, err)
	}
	defer out.Abort()

	if p.cfg.Decrypt {
		err = decryptStream(p.cipher, out, in)
	} else {
		err = encryptStream(p.cipher, out, in)
	}

	if err != nil {
		return 0, err
	}

	perm := os.FileMode(ownerReadWrite)
	if info.Mode()&executableBits != 0 {
		perm |= executableBits
	}

	if err := out.Commit(perm); err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrOutputCreate, outPath, err)
	}

	if err := in.Close(); err != nil {
		return 0, fmt.Errorf("closing input file: %w", err)
	}

	if p.cfg.PreserveTimestamps {
		if err := fileutil.RestoreTimes(outPath, info.ModTime()); err != nil {
			return 0, err
		}
	}

	outInfo, err := os.Stat(outPath)
	if err != nil {
		return 0, fmt.Errorf("stat output %q: %w", outPath, err)
	}

	return outInfo.Size(), nil
}

// outputPath generates the output file path for filename based on the
// configured suffixes, or the explicit override when one was given.
func (p *Processor) outputPath(filename string) string {
	if p.cfg.Output != "" {
		return p.cfg.Output
	}

	ext := p.cfg.EncryptSuffix

	if p.cfg.Decrypt {
		filename = strings.TrimSuffix(filename, p.cfg.EncryptSuffix)
		ext = p.cfg.DecryptSuffix
	}

	return filepath.Join(filepath.Dir(filename),
		filepath.Base(filename)+ext)
}
