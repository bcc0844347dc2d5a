package fetch

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var (
	// ErrUnsafePath is returned for archive members that would land outside
	// the target directory.
	ErrUnsafePath = errors.New("unsafe path in archive")
	// ErrMissingMember is returned when a requested member is not in the archive.
	ErrMissingMember = errors.New("member not found in archive")
)

// Extract unpacks the zip archive at path into dir. When members are given
// only those files are extracted, and each must be present.
func Extract(path, dir string, members ...string) ([]string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer r.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating extract dir: %w", err)
	}

	var written []string
	found := make(map[string]bool, len(members))
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if len(members) > 0 && !slices.Contains(members, f.Name) {
			continue
		}
		target, err := safeJoin(dir, f.Name)
		if err != nil {
			return written, err
		}
		if err := extractFile(f, target); err != nil {
			return written, err
		}
		found[f.Name] = true
		written = append(written, target)
	}

	for _, m := range members {
		if !found[m] {
			return written, fmt.Errorf("%s: %w", m, ErrMissingMember)
		}
	}
	return written, nil
}

func safeJoin(dir, name string) (string, error) {
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("%s: %w", name, ErrUnsafePath)
	}
	target := filepath.Join(dir, filepath.FromSlash(name))
	rel, err := filepath.Rel(dir, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: %w", name, ErrUnsafePath)
	}
	return target, nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(target), err)
	}
	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening %s: %w", f.Name, err)
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("creating %s: %w", target, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("extracting %s: %w", f.Name, err)
	}
	return dst.Close()
}
