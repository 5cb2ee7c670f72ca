package encryption

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jviki/xxtea/internal/config"
	"github.com/jviki/xxtea/internal/keyfile"
)

func writeKeyFile(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "key.txt")
	if err := os.WriteFile(path, []byte(testKeyHex+"\n"), 0o600); err != nil {
		t.Fatalf("writing key file: %v", err)
	}

	return path
}

func baseConfig(files ...string) *config.Config {
	return &config.Config{
		Key:           testKeyHex,
		EncryptSuffix: ".xtea",
		Parallel:      2,
		Quiet:         true,
		Files:         files,
	}
}

func TestNewProcessorKeySources(t *testing.T) {
	t.Parallel()

	if _, err := NewProcessor(baseConfig("in.bin")); err != nil {
		t.Errorf("NewProcessor(inline key) error = %v", err)
	}

	cfg := baseConfig("in.bin")
	cfg.Key = ""
	cfg.KeyFile = writeKeyFile(t)

	if _, err := NewProcessor(cfg); err != nil {
		t.Errorf("NewProcessor(key file) error = %v", err)
	}

	cfg = baseConfig("in.bin")
	cfg.Key = ""
	cfg.KeyFile = filepath.Join(t.TempDir(), "missing.txt")

	if _, err := NewProcessor(cfg); !errors.Is(err, keyfile.ErrNotFound) {
		t.Errorf("NewProcessor(missing key file) error = %v, want ErrNotFound", err)
	}

	cfg = baseConfig("in.bin")
	cfg.Key = "zz" + testKeyHex[2:]

	if _, err := NewProcessor(cfg); !errors.Is(err, keyfile.ErrInvalidKey) {
		t.Errorf("NewProcessor(bad inline key) error = %v, want ErrInvalidKey", err)
	}

	cfg = baseConfig("in.bin")
	cfg.Key = ""

	if _, err := NewProcessor(cfg); err == nil {
		t.Error("NewProcessor() accepted empty key material")
	}
}

// A bad key must be reported as a key error even when the input files do
// not exist either: key validation happens strictly first.
func TestNewProcessorRejectsKeyBeforeInput(t *testing.T) {
	t.Parallel()

	cfg := baseConfig(filepath.Join(t.TempDir(), "also-missing.bin"))
	cfg.Key = ""
	cfg.KeyFile = filepath.Join(t.TempDir(), "missing-key.txt")

	_, err := NewProcessor(cfg)
	if !errors.Is(err, keyfile.ErrNotFound) {
		t.Fatalf("NewProcessor() error = %v, want key file ErrNotFound", err)
	}
	if errors.Is(err, ErrMissingInput) {
		t.Fatal("NewProcessor() touched input files before the key")
	}
}

func TestOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		decrypt bool
		output  string
		file    string
		want    string
	}{
		{"encrypt appends suffix", false, "", "dir/in.bin", filepath.Join("dir", "in.bin.xtea")},
		{"decrypt strips suffix", true, "", "dir/in.bin.xtea", filepath.Join("dir", "in.bin")},
		{"decrypt without suffix keeps name", true, "", "dir/in.bin", filepath.Join("dir", "in.bin")},
		{"explicit output wins", false, "out/result.enc", "dir/in.bin", "out/result.enc"},
	}

	for _, tc := range tests {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := baseConfig(tc.file)
			cfg.Decrypt = tc.decrypt
			cfg.Output = tc.output

			p, err := NewProcessor(cfg)
			if err != nil {
				t.Fatalf("NewProcessor() error = %v", err)
			}

			if got := p.outputPath(tc.file); got != tc.want {
				t.Errorf("outputPath(%q) = %q, want %q", tc.file, got, tc.want)
			}
		})
	}
}

func TestProcessFilesEncryptDecrypt(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "in.bin")
	plain := bytes.Repeat([]byte("payload"), 72)[:500]

	if err := os.WriteFile(input, plain, 0o600); err != nil {
		t.Fatalf("writing input: %v", err)
	}

	cfg := baseConfig(input)

	p, err := NewProcessor(cfg)
	if err != nil {
		t.Fatalf("NewProcessor() error = %v", err)
	}

	processed, errored, totalSize, err := p.ProcessFiles()
	if err != nil {
		t.Fatalf("ProcessFiles() error = %v", err)
	}
	if processed != 1 || errored != 0 {
		t.Fatalf("ProcessFiles() = (%d, %d), want (1, 0)", processed, errored)
	}
	if totalSize != 512 {
		t.Errorf("ProcessFiles() total size = %d, want 512", totalSize)
	}

	encrypted, err := os.ReadFile(input + ".xtea")
	if err != nil {
		t.Fatalf("reading encrypted output: %v", err)
	}
	if len(encrypted) != 512 {
		t.Fatalf("encrypted output is %d bytes, want 512", len(encrypted))
	}
	if bytes.Contains(encrypted, plain[:64]) {
		t.Error("encrypted output contains plaintext")
	}

	decCfg := baseConfig(input + ".xtea")
	decCfg.Decrypt = true

	dp, err := NewProcessor(decCfg)
	if err != nil {
		t.Fatalf("NewProcessor(decrypt) error = %v", err)
	}

	if _, _, _, err := dp.ProcessFiles(); err != nil {
		t.Fatalf("ProcessFiles(decrypt) error = %v", err)
	}

	decrypted, err := os.ReadFile(input)
	if err != nil {
		t.Fatalf("reading decrypted output: %v", err)
	}

	want := append(append([]byte{}, plain...), bytes.Repeat([]byte{'0'}, 12)...)
	if !bytes.Equal(decrypted, want) {
		t.Error("decrypted output does not match plaintext plus '0' padding")
	}
}

func TestProcessFilesMissingInput(t *testing.T) {
	t.Parallel()

	cfg := baseConfig(filepath.Join(t.TempDir(), "missing.bin"))

	p, err := NewProcessor(cfg)
	if err != nil {
		t.Fatalf("NewProcessor() error = %v", err)
	}

	_, errored, _, err := p.ProcessFiles()
	if !errors.Is(err, ErrMissingInput) {
		t.Errorf("ProcessFiles() error = %v, want ErrMissingInput", err)
	}
	if errored != 1 {
		t.Errorf("ProcessFiles() errored = %d, want 1", errored)
	}
}

func TestProcessFilesCountsPartialFailures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	good := filepath.Join(dir, "good.bin")
	if err := os.WriteFile(good, []byte("data"), 0o600); err != nil {
		t.Fatalf("writing input: %v", err)
	}

	cfg := baseConfig(good, filepath.Join(dir, "missing.bin"))

	p, err := NewProcessor(cfg)
	if err != nil {
		t.Fatalf("NewProcessor() error = %v", err)
	}

	processed, errored, _, err := p.ProcessFiles()
	if err == nil {
		t.Error("ProcessFiles() returned nil error despite a failed file")
	}
	if processed != 1 || errored != 1 {
		t.Errorf("ProcessFiles() = (%d, %d), want (1, 1)", processed, errored)
	}

	if _, err := os.Stat(good + ".xtea"); err != nil {
		t.Errorf("healthy file was not processed: %v", err)
	}
}

func TestProcessFilesDelete(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "in.bin")

	if err := os.WriteFile(input, []byte("short"), 0o600); err != nil {
		t.Fatalf("writing input: %v", err)
	}

	cfg := baseConfig(input)
	cfg.Delete = true

	p, err := NewProcessor(cfg)
	if err != nil {
		t.Fatalf("NewProcessor() error = %v", err)
	}

	if _, _, _, err := p.ProcessFiles(); err != nil {
		t.Fatalf("ProcessFiles() error = %v", err)
	}

	if _, err := os.Stat(input); !os.IsNotExist(err) {
		t.Errorf("input file still present after delete: %v", err)
	}

	if _, err := os.Stat(input + ".xtea"); err != nil {
		t.Errorf("output file missing: %v", err)
	}
}

func TestProcessFilesPreservesTimestamps(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "in.bin")

	if err := os.WriteFile(input, []byte("timed"), 0o600); err != nil {
		t.Fatalf("writing input: %v", err)
	}

	stamp := time.Date(2021, 3, 14, 15, 9, 26, 0, time.UTC)
	if err := os.Chtimes(input, stamp, stamp); err != nil {
		t.Fatalf("setting input times: %v", err)
	}

	cfg := baseConfig(input)
	cfg.PreserveTimestamps = true

	p, err := NewProcessor(cfg)
	if err != nil {
		t.Fatalf("NewProcessor() error = %v", err)
	}

	if _, _, _, err := p.ProcessFiles(); err != nil {
		t.Fatalf("ProcessFiles() error = %v", err)
	}

	info, err := os.Stat(input + ".xtea")
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}
	if !info.ModTime().Equal(stamp) {
		t.Errorf("output mod time = %v, want %v", info.ModTime(), stamp)
	}
}

func TestProcessFilesCarriesExecutableBit(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("no executable bit on windows")
	}

	dir := t.TempDir()
	input := filepath.Join(dir, "tool.sh")

	if err := os.WriteFile(input, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("writing input: %v", err)
	}

	cfg := baseConfig(input)

	p, err := NewProcessor(cfg)
	if err != nil {
		t.Fatalf("NewProcessor() error = %v", err)
	}

	if _, _, _, err := p.ProcessFiles(); err != nil {
		t.Fatalf("ProcessFiles() error = %v", err)
	}

	info, err := os.Stat(input + ".xtea")
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}
	if info.Mode()&0o111 == 0 {
		t.Error("executable bit not carried to output")
	}
}
