// Package config defines the runtime configuration shared by all commands.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Config carries the settings for one invocation. It is assembled once
// from flags and environment variables and treated as read-only afterwards,
// so the processing goroutines can share it without locking.
type Config struct {
	// Key material. Exactly one of Key and KeyFile must be set.
	Key     string `mapstructure:"key"      yaml:"key"      validate:"required_without=KeyFile,excluded_with=KeyFile,omitempty,len=32,hexadecimal"`
	KeyFile string `mapstructure:"key-file" yaml:"key-file"`

	// Output naming
	EncryptSuffix string `mapstructure:"encrypt-ext" yaml:"encrypt-ext"`
	DecryptSuffix string `mapstructure:"decrypt-ext" yaml:"decrypt-ext"`
	Output        string `mapstructure:"output"      yaml:"output"`

	// Behavior flags
	Parallel           int  `mapstructure:"parallel" yaml:"parallel" validate:"gte=1"`
	Quiet              bool `mapstructure:"quiet"    yaml:"quiet"`
	Stats              bool `mapstructure:"stats"    yaml:"stats"`
	Dry                bool `mapstructure:"dry"      yaml:"dry"`
	Delete             bool `mapstructure:"delete"   yaml:"delete"`
	PreserveTimestamps bool `mapstructure:"preserve-timestamps" yaml:"preserve-timestamps"`
	Show               bool `mapstructure:"show"     yaml:"show"`

	// File selection
	Include     []string `mapstructure:"include"      yaml:"include"`
	Exclude     []string `mapstructure:"exclude"      yaml:"exclude"`
	IncludeFrom string   `mapstructure:"include-from" yaml:"include-from"`
	ExcludeFrom string   `mapstructure:"exclude-from" yaml:"exclude-from"`

	// Set by the selected subcommand, not by flags.
	Decrypt bool `mapstructure:"-" yaml:"-"`

	// Positional arguments
	Files []string `mapstructure:"-" yaml:"files" validate:"min=1"`
}

// Validate checks the configuration against the struct tags.
func (c Config) Validate() error {
	validate := validator.New()

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validating configuration: %w", err)
	}

	return nil
}

// Masked returns a copy of the configuration with the key value hidden,
// suitable for printing.
func (c Config) Masked() Config {
	if c.Key != "" {
		c.Key = strings.Repeat("*", len(c.Key))
	}

	return c
}
