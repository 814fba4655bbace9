package utility

import (
	"os"
	"path/filepath"
)

// IsRegularFile reports whether path exists and is a regular file
func IsRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// AbsolutePath resolves path to an absolute path with symlinks evaluated
func AbsolutePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
