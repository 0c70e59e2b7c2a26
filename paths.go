package mite

import (
	"path/filepath"
	"strings"
)

// PageFile is the name of the file generated for every page.
const PageFile = "index.html"

// ResolveOutputPath determines the generated page path from the markdown source path
func ResolveOutputPath(mdPath string) string {
	return filepath.Join(filepath.Dir(mdPath), PageFile)
}

// Identifier derives an identifier-safe name from a path: the extension is dropped and
// every byte that is not a letter or digit becomes an underscore.
func Identifier(path string) string {
	path = filepath.ToSlash(strings.TrimSuffix(path, filepath.Ext(path)))
	b := []byte(path)
	for i, c := range b {
		if !isAlnum(c) {
			b[i] = '_'
		}
	}
	return string(b)
}

// PageURL derives the public URL of a generated page path relative to the site root.
func PageURL(outputPath string) string {
	dir := filepath.ToSlash(filepath.Dir(outputPath))
	if dir == "." || dir == "" {
		return "/"
	}
	return "/" + strings.Trim(dir, "/") + "/"
}

func MustAbs(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		panic(err)
	}
	return abs
}
