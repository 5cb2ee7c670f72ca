package encryption

import "errors"

var (
	// ErrMissingInput is returned when an input file cannot be opened.
	ErrMissingInput = errors.New("no input file found")
	// ErrOutputCreate is returned when the output file cannot be created or
	// moved into place.
	ErrOutputCreate = errors.New("output file cannot be created")
	// ErrPartialWrite is returned when a cipher block could not be written
	// out completely.
	ErrPartialWrite = errors.New("partial block write")
)
