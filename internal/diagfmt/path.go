package diagfmt

import (
	"os"
	"path/filepath"

	"quanta/internal/source"
)

func formatPath(f *source.File, mode PathMode, baseDir string) string {
	if f == nil {
		return "<unknown>"
	}
	if f.Flags&source.FileVirtual != 0 {
		return f.Path
	}
	switch mode {
	case PathModeBasename:
		return filepath.Base(f.Path)
	case PathModeAbsolute:
		if abs, err := filepath.Abs(f.Path); err == nil {
			return filepath.ToSlash(abs)
		}
		return f.Path
	case PathModeRelative:
		return relativeTo(f.Path, baseDir)
	default:
		rel := relativeTo(f.Path, baseDir)
		if len(rel) <= len(f.Path) {
			return rel
		}
		return f.Path
	}
}

func relativeTo(path, baseDir string) string {
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return path
		}
		baseDir = wd
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(baseDir, abs)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
