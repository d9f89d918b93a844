// Package writer writes output files atomically.
package writer

import (
	"fmt"
	"os"
	"path/filepath"
)

const fileMode = 0o644

// WriteFile writes data to a temporary file in the directory of path and
// renames it to path, so that readers never observe a partially written
// image.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	file, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempName := file.Name()

	if err := writeAndClose(file, data); err != nil {
		_ = os.Remove(tempName)
		return err
	}

	if err := os.Chmod(tempName, fileMode); err != nil {
		_ = os.Remove(tempName)
		return fmt.Errorf("setting file mode: %w", err)
	}
	if err := os.Rename(tempName, path); err != nil {
		_ = os.Remove(tempName)
		return fmt.Errorf("renaming temp file to %s: %w", path, err)
	}
	return nil
}

func writeAndClose(file *os.File, data []byte) error {
	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	return nil
}
