package commands

import (
	"runtime"

	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command and registers the flags shared by
// all subcommands.
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "xxtea [flags] command [flags]",
		Short: "File encryption with the corrected block TEA cipher",
		Long: `Encrypt and decrypt files with the XXTEA cipher in independent 512-byte
blocks. The final block is padded to the boundary with '0' characters on
encryption; a trailing partial block is dropped on decryption. The key is
32 hexadecimal characters, inline or on the first line of a key file.`,
		Version:      version,
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolP("show", "s", false, "Show the configuration and exit")
	root.PersistentFlags().IntP("parallel", "j", runtime.NumCPU(), "Number of parallel workers, defaults to number of CPUs")
	root.PersistentFlags().BoolP("quiet", "q", false, "Suppress non-error output")
	root.PersistentFlags().Bool("stats", false, "Print a processing summary to stderr")
	root.PersistentFlags().Bool("dry", false, "Preview the files that would be processed, without writing anything")
	root.PersistentFlags().Bool("delete", false, "Delete the original file after successful encryption/decryption")
	root.PersistentFlags().Bool("preserve-timestamps", false, "Give the output file the source file's modification time")

	root.PersistentFlags().StringP("key", "k", "", "Encryption key (32 hexadecimal characters)")
	root.PersistentFlags().
		StringP("key-file", "f", "", "Path to the key file (first line: 32 hexadecimal characters)")

	root.PersistentFlags().StringP("output", "o", "", "Output file path, valid for a single input file only")
	root.PersistentFlags().String("encrypt-ext", ".xtea", "Suffix to append to encrypted files")
	root.PersistentFlags().String("decrypt-ext", "", "Suffix to append to decrypted files, after stripping the encrypted suffix")

	root.PersistentFlags().StringSlice("include", nil, "Glob patterns selecting files when directories are walked")
	root.PersistentFlags().StringSlice("exclude", nil, "Glob patterns excluding files when directories are walked")
	root.PersistentFlags().String("include-from", "", "JSONC file with include patterns")
	root.PersistentFlags().String("exclude-from", "", "JSONC file with exclude patterns")

	root.AddCommand(
		NewEncryptCommand(),
		NewDecryptCommand(),
		NewKeygenCommand(),
		NewCheckCommand(),
	)

	return root
}

// Execute builds the command tree and runs it.
func Execute(version string) error {
	return NewRootCommand(version).Execute()
}
