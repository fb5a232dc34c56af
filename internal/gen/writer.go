package gen

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFiles writes every generated file atomically: content goes to a
// temporary file in the destination directory which is then renamed over the
// final path. A failure partway through leaves earlier files complete and the
// failing file untouched; it never leaves a half-written artifact.
func WriteFiles(files []GeneratedFile) error {
	for _, f := range files {
		if err := writeAtomic(f.Filename, f.Content); err != nil {
			return err
		}
	}

	return nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set mode on %s: %w", path, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}

	return nil
}
