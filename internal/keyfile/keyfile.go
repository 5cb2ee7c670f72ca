// Package keyfile reads 128-bit keys from their fixed-width hexadecimal
// text format: the first line of the file must hold exactly 32 hex digits,
// forming four 8-digit groups, most significant group first.
package keyfile

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	// keyChars is the number of hex digits making up a key.
	keyChars = 32

	// maxRead bounds how much of the key file is ever read: the key digits
	// plus an optional CR/LF terminator. Reading one byte past a CRLF line
	// is enough to tell a 32-digit line from a longer one.
	maxRead = keyChars + 2
)

var (
	// ErrNotFound means the key file could not be opened.
	ErrNotFound = errors.New("key file not found")

	// ErrInvalidKey means the first line of the key file is not exactly 32
	// hexadecimal characters.
	ErrInvalidKey = errors.New("not a valid key")
)

// Load reads the key from the first line of the file at path and returns
// the 16 raw key bytes. Content after the first line is ignored. No partial
// key is ever returned: on any failure the result is nil.
func Load(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, path)
	}
	defer f.Close()

	buf := make([]byte, maxRead)

	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("reading key file %q: %w", path, err)
	}

	line := buf[:n]

	// The line ends at the first CR or LF, so both Unix and Windows line
	// endings are accepted. A line longer than the read window cannot be a
	// valid key and fails the length check below.
	if i := bytes.IndexAny(line, "\r\n"); i >= 0 {
		line = line[:i]
	}

	return Parse(string(line))
}

// Parse decodes a 32-character hexadecimal key (case-insensitive) into its
// 16 raw bytes.
func Parse(s string) ([]byte, error) {
	if len(s) != keyChars {
		return nil, fmt.Errorf("%w: got %d characters, want %d", ErrInvalidKey, len(s), keyChars)
	}

	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	return key, nil
}
