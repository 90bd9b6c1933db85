// Package fsops holds filesystem probes for the state directory.
package fsops

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
)

// EnsureDir creates dir and its parents if missing
func EnsureDir(fs afero.Fs, dir string, perm os.FileMode) error {
	if err := fs.MkdirAll(dir, perm); err != nil {
		return fmt.Errorf("ensure directory %s: %w", dir, err)
	}
	return nil
}

// CheckWritable creates dir if missing and probes it with a temp file
func CheckWritable(fs afero.Fs, dir string) error {
	if !Exists(fs, dir) {
		if err := EnsureDir(fs, dir, 0755); err != nil {
			return fmt.Errorf("%s not writable: %w", dir, err)
		}
	}
	f, err := afero.TempFile(fs, dir, ".depkg-probe-*")
	if err != nil {
		return fmt.Errorf("%s not writable: %w", dir, err)
	}
	name := f.Name()
	_ = f.Close()
	if err := fs.Remove(name); err != nil {
		return fmt.Errorf("remove probe in %s: %w", dir, err)
	}
	return nil
}

// Exists reports whether path can be stat'ed
func Exists(fs afero.Fs, path string) bool {
	_, err := fs.Stat(path)
	return err == nil
}
