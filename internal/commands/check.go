package commands

import (
	"github.com/spf13/cobra"

	"github.com/jviki/xxtea/internal/logic"
)

// NewCheckCommand creates a new cobra command for the check subcommand.
// It needs no key material, so the configuration is not validated.
func NewCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [flags] [paths...]",
		Short: "Validate that include/exclude patterns match files",
		Args:  cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindConfig(cmd)
		},
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := loadConfig(args)
			if err != nil {
				return err
			}

			return logic.RunCheck(cfg)
		},
	}
}
