package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/programmerjake/pegc/diag"
	"github.com/programmerjake/pegc"
	"github.com/programmerjake/pegc/internal/logging"
)

type generateFlags struct {
	output        string
	stdinFilename string
	color         string
	pkg           string
}

func newGenerateCommand(fs afero.Fs) *cobra.Command {
	flags := &generateFlags{}

	cmd := &cobra.Command{
		Use:   "generate <input-file>",
		Short: "Compile a PEG grammar file into a Go parser",
		Long: `generate reads a grammar file (or stdin, given "-") and writes the
generated Go parser to a file, per spec.md §6.1: exit 0 on success, 1 on any
usage, I/O, or compilation error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, fs, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output source path")
	cmd.Flags().StringVar(&flags.stdinFilename, "stdin-filename", "-",
		"display name to use for diagnostics when <input-file> is \"-\"")
	cmd.Flags().StringVar(&flags.color, "color", "auto", "colorize diagnostics: auto, always, never")
	cmd.Flags().StringVar(&flags.pkg, "package", "main", "package name for the emitted Go file")

	return cmd
}

func runGenerate(cmd *cobra.Command, fs afero.Fs, input string, flags *generateFlags) error {
	logger := logging.Default()

	displayName := input
	var contents []byte
	var err error
	if input == "-" {
		displayName = flags.stdinFilename
		contents, err = io.ReadAll(cmd.InOrStdin())
	} else {
		contents, err = afero.ReadFile(fs, input)
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", input, err)
	}

	outputPath := flags.output
	if outputPath == "" {
		if input == "-" {
			return fmt.Errorf("-o is required when reading from stdin")
		}
		outputPath = replaceExt(input, ".go")
	} else if filepath.Ext(outputPath) == "" {
		outputPath += ".go"
	}

	mode, err := parseColorMode(flags.color)
	if err != nil {
		return err
	}
	printer := diag.NewPrettyPrinter(cmd.ErrOrStderr(), mode)
	h := diag.NewHandler(printer)

	logger.Debug("compiling", "input", displayName, "output", outputPath)
	out, err := pegc.Compile(displayName, contents, pegc.Options{Package: flags.pkg, CarryComments: true}, h)
	if err != nil {
		return err
	}
	if h.AnyErrors() {
		return fmt.Errorf("%s: compilation failed", displayName)
	}

	if err := afero.WriteFile(fs, outputPath, []byte(out), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}
	logger.Info("wrote parser", "path", outputPath)
	return nil
}

func parseColorMode(s string) (diag.ColorMode, error) {
	switch strings.ToLower(s) {
	case "auto":
		return diag.ColorAuto, nil
	case "always":
		return diag.ColorAlways, nil
	case "never":
		return diag.ColorNever, nil
	default:
		return 0, fmt.Errorf("invalid --color value %q: want auto, always, or never", s)
	}
}

// replaceExt swaps path's extension for ext, per spec.md §6.1's "output
// source path is <input-file> with its extension replaced by the target's
// source extension".
func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
