package mite

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jwtly10/mite/site"
)

// TemplateExt is the extension of layout and include files.
const TemplateExt = ".mite"

// DefaultLayout is the layout used by pages with no layout in their directory scope.
const DefaultLayout = "index"

// includeDirs are the directory names that mark their templates as includes.
var includeDirs = map[string]bool{
	"include":  true,
	"includes": true,
	"partials": true,
}

// Template is one layout or include file. Its program is compiled on first use.
type Template struct {
	Name string
	// The template file path, relative to the site root
	Path string
	Kind site.TemplateKind

	once    sync.Once
	program Program
	err     error
}

// TemplateKindFor classifies a template file by the directory it lives in.
func TemplateKindFor(path string) site.TemplateKind {
	if includeDirs[filepath.Base(filepath.Dir(path))] {
		return site.Include
	}
	return site.Layout
}

// Compile reads and transpiles the template file below root, at most once.
func (t *Template) Compile(root string) (Program, error) {
	t.once.Do(func() {
		src, err := os.ReadFile(filepath.Join(root, t.Path))
		if err != nil {
			t.err = fmt.Errorf("reading template %s: %w", t.Path, err)
			return
		}
		t.program, t.err = Transpile(src)
		if t.err != nil {
			t.err = fmt.Errorf("template %s: %w", t.Path, t.err)
		}
	})
	return t.program, t.err
}

// Registry holds the pages and templates of one build in discovery order.
type Registry struct {
	Root      string
	Pages     []*Document
	Templates []*Template

	byName  map[string]*Template
	byPath  map[string]*Template
	byInput map[string]*Document
}

func NewRegistry(root string) *Registry {
	return &Registry{
		Root:    root,
		byName:  make(map[string]*Template),
		byPath:  make(map[string]*Template),
		byInput: make(map[string]*Document),
	}
}

// AddTemplate registers the template file at path (relative to the root). The same
// path always yields the same template; two files sharing a name are an error.
func (r *Registry) AddTemplate(path string) (*Template, error) {
	path = filepath.Clean(path)
	if t, ok := r.byPath[path]; ok {
		return t, nil
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if other, ok := r.byName[name]; ok {
		return nil, fmt.Errorf("template name %q used by both %s and %s", name, other.Path, path)
	}

	t := &Template{Name: name, Path: path, Kind: TemplateKindFor(path)}
	r.Templates = append(r.Templates, t)
	r.byName[name] = t
	r.byPath[path] = t
	slog.Debug("registered template", "name", name, "kind", t.Kind, "path", path)
	return t, nil
}

// Template returns the template registered under name.
func (r *Registry) Template(name string) (*Template, bool) {
	t, ok := r.byName[name]
	return t, ok
}

func (r *Registry) AddPage(doc *Document) {
	r.Pages = append(r.Pages, doc)
	r.byInput[doc.Metadata.Source] = doc
}

// PageByInput returns the document compiled from the given source path.
func (r *Registry) PageByInput(path string) (*Document, bool) {
	doc, ok := r.byInput[filepath.Clean(path)]
	return doc, ok
}

// DefaultLayoutFor resolves the layout of a page that does not select one: the nearest
// layout template found walking up from the page directory, preferring a template named
// after its directory, and DefaultLayout when there is none.
func (r *Registry) DefaultLayoutFor(mdPath string) string {
	dir := filepath.Dir(filepath.Clean(mdPath))
	for {
		var found *Template
		for _, t := range r.Templates {
			if t.Kind != site.Layout || filepath.Dir(t.Path) != dir {
				continue
			}
			if found == nil || t.Name == filepath.Base(dir) {
				found = t
			}
		}
		if found != nil {
			return found.Name
		}
		if dir == "." || dir == string(filepath.Separator) {
			return DefaultLayout
		}
		dir = filepath.Dir(dir)
	}
}
