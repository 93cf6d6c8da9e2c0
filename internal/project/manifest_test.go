package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"quanta/internal/codegen"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), "[package]\nname = \"demo\"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	m, err := Discover(nested)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if m.Config.Package.Name != "demo" {
		t.Errorf("name = %q", m.Config.Package.Name)
	}
	if got, _ := filepath.EvalSymlinks(m.Root); got != mustEval(t, root) {
		t.Errorf("root = %q, want %q", m.Root, root)
	}
}

func mustEval(t *testing.T, p string) string {
	t.Helper()
	got, err := filepath.EvalSymlinks(p)
	if err != nil {
		t.Fatal(err)
	}
	return got
}

func TestDiscoverMissing(t *testing.T) {
	// Only a stray quanta.toml above the temp dir could make this succeed.
	if _, err := Discover(t.TempDir()); err != nil && !errors.Is(err, ErrNoManifest) {
		t.Fatalf("err = %v, want ErrNoManifest", err)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"missing name", "[generate]\ncomment_wrap = 40\n", "missing [package].name"},
		{"bad toml", "[package\n", "failed to parse TOML"},
		{"negative wrap", "[package]\nname = \"x\"\n[generate]\ncomment_wrap = -1\n", "comment_wrap"},
		{"bad case", "[package]\nname = \"x\"\n[generate]\nmnemonic_case = \"title\"\n", "mnemonic_case"},
		{"unknown key", "[package]\nname = \"x\"\n[generate]\nbase = 1\n", "unknown key generate.base"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ManifestName)
			writeFile(t, path, tt.content)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestOptionsAndInputs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), `[package]
name = "demo"

[generate]
one_based_index = true
comment_wrap = 40
mnemonic_case = "upper"
inputs = ["src/*.xml", "main.xml", "src/b.xml"]
out_dir = "out"
`)
	writeFile(t, filepath.Join(root, "main.xml"), "<xml/>")
	writeFile(t, filepath.Join(root, "src", "a.xml"), "<xml/>")
	writeFile(t, filepath.Join(root, "src", "b.xml"), "<xml/>")
	writeFile(t, filepath.Join(root, "src", "notes.txt"), "")

	m, err := Load(filepath.Join(root, ManifestName))
	if err != nil {
		t.Fatal(err)
	}
	opts := m.Options()
	want := codegen.Options{OneBasedIndex: true, CommentWrap: 40, Indent: codegen.DefaultIndent, MnemonicCase: codegen.CaseUpper}
	if opts != want {
		t.Errorf("Options() = %+v, want %+v", opts, want)
	}
	inputs, err := m.Inputs()
	if err != nil {
		t.Fatal(err)
	}
	wantInputs := []string{
		filepath.Join(root, "main.xml"),
		filepath.Join(root, "src", "a.xml"),
		filepath.Join(root, "src", "b.xml"),
	}
	if strings.Join(inputs, "|") != strings.Join(wantInputs, "|") {
		t.Errorf("Inputs() = %v, want %v", inputs, wantInputs)
	}
	if got := m.OutDir(); got != filepath.Join(root, "out") {
		t.Errorf("OutDir() = %q", got)
	}
}

func TestInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "blinky")
	path, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load(default manifest): %v", err)
	}
	if m.Config.Package.Name != "blinky" || m.OutDir() != filepath.Join(dir, "build") {
		t.Errorf("manifest = %+v", m.Config)
	}
	if _, err := Init(dir); !errors.Is(err, ErrAlreadyPresent) {
		t.Errorf("second Init err = %v, want ErrAlreadyPresent", err)
	}
}
