// Command pegc compiles a PEG grammar file into a self-contained Go parser.
package main

import (
	"os"

	"github.com/spf13/afero"

	"github.com/programmerjake/pegc/internal/cli"
	"github.com/programmerjake/pegc/internal/logging"
)

// Build-time variables, set via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	info := cli.BuildInfo{Version: version, Commit: commit, Date: date}
	rootCmd := cli.NewRootCommand(info, afero.NewOsFs())

	if err := rootCmd.Execute(); err != nil {
		logging.Default().Error("command failed", "error", err)
		return cli.ExitFailure
	}
	return cli.ExitSuccess
}
