package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"quanta/internal/diag"
	"quanta/internal/driver"
	"quanta/internal/observ"
	"quanta/internal/testkit"
)

var checkCmd = &cobra.Command{
	Use:   "check [workspace.xml|dir]...",
	Short: "Validate workspaces without writing output",
	Long: `Check reads and generates every workspace, verifies the block tree
structure (links, ownership, cycles) and reports diagnostics. Nothing is
written and the cache is not consulted.`,
	RunE: runCheck,
}

func init() {
	addGenFlags(checkCmd)
	checkCmd.Flags().Bool("strict", false, "treat warnings as errors")
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if format, err = readFormat(format); err != nil {
		return err
	}
	strict, err := cmd.Flags().GetBool("strict")
	if err != nil {
		return err
	}
	timings, err := rootBool(cmd, "timings")
	if err != nil {
		return err
	}
	quiet, err := rootBool(cmd, "quiet")
	if err != nil {
		return err
	}

	timer := observ.NewTimer()
	idx := timer.Begin("resolve")
	setup, err := resolveBatch(cmd, args)
	if err != nil {
		return err
	}
	setup.opts.NoWrite = true
	timer.End(idx, fmt.Sprintf("%d files", len(setup.files)))

	idx = timer.Begin("batch")
	fs, results, err := driver.Run(cmd.Context(), setup.files, setup.opts)
	timer.End(idx, "")
	if err != nil {
		return err
	}

	idx = timer.Begin("structure")
	failed := 0
	for i := range results {
		r := &results[i]
		if r.Tree != nil && !r.Failed() {
			testkit.CheckTree(r.Tree, diag.BagReporter{Bag: r.Bag})
		}
		if r.Failed() || (strict && r.Bag.HasWarnings()) {
			failed++
		}
	}
	timer.End(idx, "")

	if err := printDiagnostics(cmd.ErrOrStderr(), format, fs, results); err != nil {
		return err
	}
	if timings {
		printTimings(cmd.ErrOrStderr(), timer, results)
	}
	if failed > 0 {
		return fmt.Errorf("check failed: %d of %d files", failed, len(results))
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "%d files ok\n", len(results))
	}
	return nil
}
