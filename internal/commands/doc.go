// Package commands provides the command-line interface for the xxtea tool.
//
// It implements commands for:
//   - encryption
//   - decryption
//   - key generation
//
// The package handles command-line parsing, configuration validation,
// and environment variable binding through cobra and viper.
package commands

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jviki/xxtea/internal/config"
)

// bindConfig connects the command's flag set and XXTEA_* environment
// variables to viper. Runs as each subcommand's PersistentPreRunE so the
// inherited flags are registered by then.
func bindConfig(cmd *cobra.Command) error {
	viper.SetEnvPrefix("xxtea")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	return viper.BindPFlags(cmd.Flags())
}

// loadConfig unmarshals the bound configuration and applies the positional
// arguments, defaulting to the current directory when none are given.
func loadConfig(args []string) (*config.Config, error) {
	var cfg config.Config

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(args) == 0 {
		args = []string{"."}
	}

	cfg.Files = args

	return &cfg, nil
}

// showConfig prints the resolved configuration as YAML, with the key value
// masked.
func showConfig(cmd *cobra.Command, cfg *config.Config) error {
	out, err := yaml.Marshal(cfg.Masked())
	if err != nil {
		return fmt.Errorf("rendering configuration: %w", err)
	}

	cmd.Println(string(out))

	return nil
}
