package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultManifest is the quanta.toml written by Init.
func DefaultManifest(name string) string {
	return fmt.Sprintf(`# quanta project manifest
[package]
name = %q

[generate]
one_based_index = false
comment_wrap = 60
mnemonic_case = "table"
inputs = ["*.xml"]
out_dir = "build"
`, name)
}

// Init creates dir if needed and writes a default manifest into it. The
// package name is the directory's base name.
func Init(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	if st, err := os.Stat(abs); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		if err := os.MkdirAll(abs, 0o755); err != nil {
			return "", fmt.Errorf("failed to create directory %q: %w", abs, err)
		}
	} else if !st.IsDir() {
		return "", fmt.Errorf("%q is not a directory", abs)
	}

	path := filepath.Join(abs, ManifestName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%w: %s exists", ErrAlreadyPresent, path)
	}
	name := strings.TrimSpace(filepath.Base(abs))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "quanta-project"
	}
	if err := os.WriteFile(path, []byte(DefaultManifest(name)), 0o600); err != nil {
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}
	return path, nil
}
