// Package cli provides the cobra command tree for the pegc binary, per
// SPEC_FULL.md §6.1, mirroring yaklabco/gomdlint's internal/cli package:
// one file per (sub)command, a BuildInfo struct threaded in from main, and
// an afero.Fs so the whole tree runs against an in-memory filesystem in
// tests without touching disk.
package cli

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/programmerjake/pegc/internal/logging"
)

// BuildInfo holds build-time version information, threaded in from main via
// -ldflags, and printed by the version subcommand (SPEC_FULL.md §10; there
// is no -v/--version flag).
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root pegc command with all subcommands. fs is
// the filesystem generate reads grammar files from and writes emitted
// output to; pass afero.NewOsFs() from main, an afero.NewMemMapFs() in
// tests.
func NewRootCommand(info BuildInfo, fs afero.Fs) *cobra.Command {
	var debug bool

	rootCmd := &cobra.Command{
		Use:   "pegc",
		Short: "A parsing-expression-grammar parser generator",
		Long: `pegc reads a PEG grammar file and emits a self-contained Go source
file implementing a packrat recursive-descent parser for that grammar.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"raise the CLI's log level (does not affect compiler behavior)")

	rootCmd.AddCommand(newGenerateCommand(fs))
	rootCmd.AddCommand(newVersionCommand(info))

	return rootCmd
}
