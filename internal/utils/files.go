package utils

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	verrors "github.com/PolarWolf314/vault-nacl/internal/errors"
	"github.com/PolarWolf314/vault-nacl/internal/ui"
)

// ResolveFiles takes user-provided paths/globs and returns matching files.
// Relative patterns are resolved against baseDir. Directories are walked
// recursively, skipping hidden directories. If patterns is empty, returns nil
// (caller should fall back to stdin).
func ResolveFiles(patterns []string, baseDir string) ([]string, error) {
	if len(patterns) == 0 {
		return nil, nil
	}

	var files []string
	seen := make(map[string]bool) // Deduplicate.

	for _, pattern := range patterns {
		resolved, err := resolvePattern(pattern, baseDir)
		if err != nil {
			return nil, err
		}

		for _, f := range resolved {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", verrors.ErrNoFilesFound, strings.Join(patterns, ", "))
	}

	return files, nil
}

func resolvePattern(pattern, baseDir string) ([]string, error) {
	absPattern := pattern
	if !filepath.IsAbs(pattern) {
		absPattern = filepath.Join(baseDir, pattern)
	}

	info, err := os.Stat(absPattern)
	if err == nil && info.IsDir() {
		return findFilesInDir(absPattern)
	}

	if strings.ContainsAny(pattern, "*?[{") {
		return expandGlob(pattern, absPattern)
	}

	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", verrors.ErrFileNotFound, pattern)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", pattern, err)
	}

	return []string{absPattern}, nil
}

func expandGlob(pattern, absPattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(absPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}

	var files []string
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, m)
	}

	return files, nil
}

func findFilesInDir(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		files = append(files, path)
		return nil
	})

	return files, err
}

// WriteFileAtomic replaces path with data. The existing file mode is kept;
// new files get perm.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// FormatPaths formats a slice of paths into a readable string.
func FormatPaths(paths []string) string {
	var b strings.Builder
	b.WriteString("\n")
	for _, path := range paths {
		b.WriteString("    - ")
		b.WriteString(ui.Path.Sprint(path))
		b.WriteString("\n")
	}
	return b.String()
}
