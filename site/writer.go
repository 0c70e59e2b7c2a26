package site

import (
	"os"
	"path/filepath"
)

// Writer receives every rendered page.
type Writer interface {
	WritePage(path string, content []byte) error
}

// FileWriter writes pages below Root, creating directories as needed.
type FileWriter struct {
	Root string
}

func (w FileWriter) WritePage(path string, content []byte) error {
	full := filepath.Join(w.Root, path)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return err
	}
	return os.WriteFile(full, content, 0644)
}

// MemoryWriter keeps rendered pages in memory, keyed by output path.
type MemoryWriter map[string][]byte

func (w MemoryWriter) WritePage(path string, content []byte) error {
	w[path] = append([]byte(nil), content...)
	return nil
}
