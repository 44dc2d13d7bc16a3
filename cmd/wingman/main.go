package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/wingman/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		errors.Fprint(stderr, classify(err))
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:   "wingman",
		Short: "Compose agent instructions from one source tree",
		Long: `Wingman composes a declarative tree of markdown, includes and
components into the instruction files coding agents read.

One tree produces:

  • The main instructions document (CLAUDE.md, copilot-instructions.md)
  • Skills, subagents and scoped instruction files
  • Plugin manifests for claude-plugin targets`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.init(cmd)
		},
	}

	root.PersistentFlags().StringVar(&g.configPath, "config", "", "Path to wingman.yaml (default: search from the project directory)")
	root.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error")
	root.PersistentFlags().Bool("no-color", false, "Disable colored output")

	root.AddCommand(
		installCmd(g),
		cleanCmd(g),
		renderCmd(g),
		watchCmd(g),
		previewCmd(g),
		versionCmd(),
	)

	return root
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", colorize("\033[32m", "✓"), fmt.Sprintf(format, args...))
}

// info prints an indented info line.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", colorize("\033[33m", "!"), fmt.Sprintf(format, args...))
}

var useColor = true

func colorize(code, text string) string {
	if !useColor {
		return text
	}
	return code + text + "\033[0m"
}
