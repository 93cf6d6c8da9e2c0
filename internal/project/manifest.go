// Package project loads the quanta.toml manifest that marks a directory of
// workspace files and holds the generator settings for it.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"quanta/internal/codegen"
)

const ManifestName = "quanta.toml"

var (
	ErrNoManifest     = errors.New("no " + ManifestName + " found")
	ErrAlreadyPresent = errors.New("project already initialized")
)

// Manifest is a loaded quanta.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

type Config struct {
	Package  PackageConfig  `toml:"package"`
	Generate GenerateConfig `toml:"generate"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

// GenerateConfig mirrors the `quanta gen` flags.
type GenerateConfig struct {
	OneBasedIndex bool     `toml:"one_based_index"`
	CommentWrap   int      `toml:"comment_wrap"`
	MnemonicCase  string   `toml:"mnemonic_case"`
	Inputs        []string `toml:"inputs"`
	OutDir        string   `toml:"out_dir"`
}

// Find walks up from startDir to the nearest quanta.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// Discover finds and loads the manifest governing startDir. It returns
// ErrNoManifest when there is none.
func Discover(startDir string) (*Manifest, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoManifest
	}
	return Load(path)
}

// Load parses and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return nil, fmt.Errorf("%s: missing [package].name", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	if cfg.Generate.CommentWrap < 0 {
		return nil, fmt.Errorf("%s: [generate].comment_wrap must not be negative", path)
	}
	if _, err := codegen.ParseMnemonicCase(cfg.Generate.MnemonicCase); err != nil {
		return nil, fmt.Errorf("%s: [generate].mnemonic_case: %w", path, err)
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, nil
}

// Options converts the [generate] table to generator options.
func (m *Manifest) Options() codegen.Options {
	opts := codegen.DefaultOptions()
	g := m.Config.Generate
	opts.OneBasedIndex = g.OneBasedIndex
	if g.CommentWrap > 0 {
		opts.CommentWrap = g.CommentWrap
	}
	// validated by Load
	opts.MnemonicCase, _ = codegen.ParseMnemonicCase(g.MnemonicCase)
	return opts
}

// Inputs expands the [generate].inputs globs relative to the project root.
// Without globs every *.xml file in the root is used. The result is sorted
// and free of duplicates.
func (m *Manifest) Inputs() ([]string, error) {
	patterns := m.Config.Generate.Inputs
	if len(patterns) == 0 {
		patterns = []string{"*.xml"}
	}
	seen := make(map[string]bool)
	var out []string
	for _, pat := range patterns {
		matches, err := filepath.Glob(filepath.Join(m.Root, filepath.FromSlash(pat)))
		if err != nil {
			return nil, fmt.Errorf("%s: bad input pattern %q: %w", m.Path, pat, err)
		}
		for _, f := range matches {
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

// OutDir is the absolute output directory; empty means next to each input.
func (m *Manifest) OutDir() string {
	dir := strings.TrimSpace(m.Config.Generate.OutDir)
	if dir == "" {
		return ""
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(m.Root, filepath.FromSlash(dir))
}
