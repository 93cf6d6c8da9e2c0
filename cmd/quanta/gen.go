package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"quanta/internal/driver"
	"quanta/internal/observ"
	"quanta/internal/source"
)

var genCmd = &cobra.Command{
	Use:   "gen [workspace.xml|dir]...",
	Short: "Generate assembly from workspace files",
	Long: `Generate reads each workspace and writes <name>.qasm next to it, or into
--out-dir / [generate].out_dir. Without arguments the inputs listed in the
nearest quanta.toml are used.`,
	RunE: runGen,
}

func init() {
	addGenFlags(genCmd)
	genCmd.Flags().String("out-dir", "", "directory for generated files")
	genCmd.Flags().Bool("stdout", false, "print programs instead of writing files")
	genCmd.Flags().Bool("no-cache", false, "bypass the generation cache")
}

var errGenerationFailed = errors.New("generation failed")

func runGen(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if format, err = readFormat(format); err != nil {
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
	toStdout, err := cmd.Flags().GetBool("stdout")
	if err != nil {
		return err
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return err
	}

	timer := observ.NewTimer()
	idx := timer.Begin("resolve")
	setup, err := resolveBatch(cmd, args)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("out-dir") {
		if setup.opts.OutDir, err = cmd.Flags().GetString("out-dir"); err != nil {
			return err
		}
	}
	setup.opts.NoWrite = toStdout
	if !noCache {
		cache, err := driver.OpenDiskCache("quanta")
		if err != nil {
			cmd.PrintErrf("warning: cache disabled: %v\n", err)
		} else {
			setup.opts.Cache = cache
		}
	}
	timer.End(idx, fmt.Sprintf("%d files", len(setup.files)))

	useUI, err := progressUIEnabled(cmd)
	if err != nil {
		return err
	}
	useUI = useUI && !toStdout

	idx = timer.Begin("batch")
	var (
		fs      *source.FileSet
		results []driver.FileResult
	)
	if useUI {
		fs, results, err = runBatchWithUI(cmd.Context(), "quanta gen", setup.files, setup.opts)
	} else {
		fs, results, err = driver.Run(cmd.Context(), setup.files, setup.opts)
	}
	summary := driver.Summarize(results)
	timer.End(idx, summary.String())
	if err != nil {
		return err
	}

	if err := printDiagnostics(cmd.ErrOrStderr(), format, fs, results); err != nil {
		return err
	}
	if toStdout {
		for i := range results {
			if results[i].Failed() {
				continue
			}
			if len(results) > 1 {
				fmt.Fprintf(cmd.OutOrStdout(), "; ---- %s\n", results[i].Path)
			}
			fmt.Fprint(cmd.OutOrStdout(), results[i].Output)
		}
	} else if !quiet && !useUI {
		for i := range results {
			if r := &results[i]; r.OutPath != "" && !r.Failed() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", r.Path, r.OutPath)
			}
		}
	}
	if !quiet && !toStdout {
		fmt.Fprintln(cmd.OutOrStdout(), summary)
	}
	if timings {
		printTimings(cmd.ErrOrStderr(), timer, results)
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%w: %d of %d files", errGenerationFailed, summary.Failed, summary.Files)
	}
	return nil
}
