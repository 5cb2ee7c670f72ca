package commands

import (
	"github.com/spf13/cobra"

	"github.com/jviki/xxtea/internal/logic"
)

// NewDecryptCommand creates a new cobra command for the decrypt subcommand.
// Without arguments it walks the current directory for files carrying the
// encrypted suffix.
func NewDecryptCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "decrypt [flags] [paths...]",
		Aliases: []string{"dec"},
		Short:   "Decrypt files",
		Args:    cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(args)
			if err != nil {
				return err
			}

			cfg.Decrypt = true

			if cfg.Show {
				return showConfig(cmd, cfg)
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			return logic.Run(cfg)
		},
	}
}
