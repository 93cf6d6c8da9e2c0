package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"quanta/internal/codegen"
	"quanta/internal/driver"
	"quanta/internal/project"
)

// batchSetup is what gen and check need to start a batch.
type batchSetup struct {
	files    []string
	opts     driver.Options
	manifest *project.Manifest
}

// addGenFlags registers the generator flags shared by gen and check.
func addGenFlags(cmd *cobra.Command) {
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	cmd.Flags().Bool("one-based", false, "count index operands from 1")
	cmd.Flags().Int("comment-wrap", 0, "column limit for block comments (0=manifest or default)")
	cmd.Flags().String("mnemonic-case", "", "mnemonic casing (table|lower|upper)")
	cmd.Flags().String("format", "pretty", "diagnostics format (pretty|json)")
}

// resolveBatch combines positional workspace paths, the nearest manifest
// and flags. Flags win over the manifest.
func resolveBatch(cmd *cobra.Command, args []string) (*batchSetup, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	manifest, err := project.Discover(wd)
	if err != nil && !errors.Is(err, project.ErrNoManifest) {
		return nil, err
	}

	setup := &batchSetup{manifest: manifest}
	setup.opts.Gen = codegen.DefaultOptions()
	if manifest != nil {
		setup.opts.Gen = manifest.Options()
		setup.opts.OutDir = manifest.OutDir()
	}

	switch {
	case len(args) > 0:
		setup.files, err = expandArgs(args)
	case manifest != nil:
		setup.files, err = manifest.Inputs()
	default:
		return nil, fmt.Errorf("no workspace files given and %w (run `quanta init` to create one)", project.ErrNoManifest)
	}
	if err != nil {
		return nil, err
	}
	if len(setup.files) == 0 {
		return nil, errors.New("no workspace files matched")
	}

	if err := applyGenFlags(cmd, &setup.opts); err != nil {
		return nil, err
	}
	return setup, nil
}

func applyGenFlags(cmd *cobra.Command, opts *driver.Options) error {
	flags := cmd.Flags()
	var err error
	if opts.Jobs, err = flags.GetInt("jobs"); err != nil {
		return err
	}
	if opts.MaxDiagnostics, err = rootInt(cmd, "max-diagnostics"); err != nil {
		return err
	}
	if flags.Changed("one-based") {
		if opts.Gen.OneBasedIndex, err = flags.GetBool("one-based"); err != nil {
			return err
		}
	}
	if flags.Changed("comment-wrap") {
		wrap, err := flags.GetInt("comment-wrap")
		if err != nil {
			return err
		}
		if wrap < 0 {
			return &flagError{flag: "comment-wrap", value: fmt.Sprint(wrap), want: "a non-negative column"}
		}
		opts.Gen.CommentWrap = wrap
	}
	if flags.Changed("mnemonic-case") {
		value, err := flags.GetString("mnemonic-case")
		if err != nil {
			return err
		}
		mc, err := codegen.ParseMnemonicCase(value)
		if err != nil {
			return &flagError{flag: "mnemonic-case", value: value, want: "table|lower|upper"}
		}
		opts.Gen.MnemonicCase = mc
	}
	return nil
}

// expandArgs replaces directory arguments with the *.xml files they hold.
func expandArgs(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, arg := range args {
		st, err := os.Stat(arg)
		if err != nil || !st.IsDir() {
			// missing files surface as load diagnostics
			add(arg)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(arg, "*.xml"))
		if err != nil {
			return nil, err
		}
		sort.Strings(matches)
		for _, m := range matches {
			add(m)
		}
	}
	return out, nil
}
