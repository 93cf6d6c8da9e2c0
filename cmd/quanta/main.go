package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"quanta/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "quanta",
	Short: "Generate quanta assembly from block workspaces",
	Long: `quanta turns Blockly workspaces built from the quanta instruction palette
into assembly source, one .qasm file per workspace.`,
	SilenceUsage:      true,
	PersistentPreRunE: prepareRun,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		finishTracing(cmd, false)
	},
}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(aliasesCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics per file")
	rootCmd.PersistentFlags().String("ui", "auto", "progress view (auto|on|off)")
	rootCmd.PersistentFlags().String("trace", "", "trace output file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage (stream|ring|both)")
	rootCmd.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "events kept in ring mode")
	rootCmd.PersistentFlags().Duration("trace-heartbeat", 0, "emit heartbeat events at this interval (0=off)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		finishTracing(rootCmd, true)
		os.Exit(1)
	}
}

func prepareRun(cmd *cobra.Command, args []string) error {
	useColor, err := colorEnabled(cmd)
	if err != nil {
		return err
	}
	color.NoColor = !useColor
	return setupTracing(cmd)
}

// colorEnabled resolves --color against the terminal state of stdout.
func colorEnabled(cmd *cobra.Command) (bool, error) {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	switch mode {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto", "":
		return isTerminal(os.Stdout) && os.Getenv("NO_COLOR") == "", nil
	}
	return false, &flagError{flag: "color", value: mode, want: "auto|on|off"}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
