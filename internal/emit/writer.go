// Package emit writes generated Java sources to disk.
package emit

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrExists is returned by Write when the target exists and overwrite is off.
var ErrExists = errors.New("file already exists")

// Path returns the location Write uses for a class name in dir.
func Path(dir, className string) string {
	return filepath.Join(dir, className+".java")
}

// Exists reports whether the file for className is already present in dir.
func Exists(dir, className string) bool {
	info, err := os.Stat(Path(dir, className))
	return err == nil && !info.IsDir()
}

// Write stores content as <dir>/<className>.java, creating dir as needed.
// An existing file is replaced only when overwrite is set; otherwise it is
// left untouched and ErrExists is returned.
func Write(dir, className, content string, overwrite bool) error {
	if dir == "" || className == "" {
		return fmt.Errorf("write %q in %q: empty target", className, dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	path := Path(dir, className)
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%s: %w", path, ErrExists)
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
