package site

import (
	"fmt"
	"log/slog"
)

// Global is the state shared by every page of one build.
type Global struct {
	Title       string
	Description string
	URL         string
	// Favicon is the asset path of the site icon
	Favicon string

	Pages     []*Page
	Templates []*Template

	data         map[string]string
	collections  map[string]*Collection
	templates    map[string]*Template
	pagesByInput map[string]*Page

	err error
}

func NewGlobal() *Global {
	return &Global{
		data:         make(map[string]string),
		collections:  make(map[string]*Collection),
		templates:    make(map[string]*Template),
		pagesByInput: make(map[string]*Page),
	}
}

// Register adds a compiled template. Registering a name twice replaces the routine.
func (g *Global) Register(name string, kind TemplateKind, render RenderFunc) {
	t := &Template{Name: name, Kind: kind, Render: render}
	if _, exists := g.templates[name]; !exists {
		g.Templates = append(g.Templates, t)
	} else {
		for i, old := range g.Templates {
			if old.Name == name {
				g.Templates[i] = t
			}
		}
	}
	g.templates[name] = t
}

// LookupTemplate returns the template registered under name.
func (g *Global) LookupTemplate(name string) (*Template, bool) {
	t, ok := g.templates[name]
	return t, ok
}

// Template returns the template registered under name. A missing template leaves the
// generated program with a dangling reference, so the build is aborted.
func (g *Global) Template(name string) *Template {
	t, ok := g.templates[name]
	if !ok {
		g.fail(&TemplateNotFoundError{Name: name})
	}
	return t
}

// fail records the first fatal error of the build and unwinds the render.
func (g *Global) fail(err error) {
	if g.err == nil {
		g.err = err
	}
	panic(err)
}

// Err returns the fatal error that aborted the build, if any.
func (g *Global) Err() error {
	return g.err
}

// AddPage registers a page after its front matter ran.
func (g *Global) AddPage(p *Page) {
	if p.Date != "" {
		t, err := ParseDate(p.Date)
		if err != nil {
			slog.Warn("page has an invalid date", "page", p.InputPath, "error", err)
		}
		p.Time = t
	}
	g.Pages = append(g.Pages, p)
	g.pagesByInput[p.InputPath] = p
}

// PageByInput returns the page built from the given input path.
func (g *Global) PageByInput(path string) (*Page, bool) {
	p, ok := g.pagesByInput[path]
	return p, ok
}

// Collection returns the named collection, creating it on first use.
func (g *Global) Collection(name string) *Collection {
	c, ok := g.collections[name]
	if !ok {
		c = &Collection{Name: name}
		g.collections[name] = c
	}
	return c
}

func (g *Global) Set(key, value string) {
	g.data[key] = value
}

func (g *Global) Get(key string) string {
	return g.data[key]
}

func (g *Global) Has(key string) bool {
	_, ok := g.data[key]
	return ok
}

func (g *Global) Equals(key, value string) bool {
	v, ok := g.data[key]
	return ok && v == value
}

// RenderInput renders the page registered for an input path, see RenderPage.
func (g *Global) RenderInput(out *Buffer, input string, content RenderFunc, w Writer) error {
	p, ok := g.PageByInput(input)
	if !ok {
		return fmt.Errorf("no page registered for %s", input)
	}
	return g.RenderPage(out, p, content, w)
}

// RenderPage renders a page through its layout, writes the result and resets out.
//
// When the layout does not resolve to a layout template the page content is rendered on
// its own.
func (g *Global) RenderPage(out *Buffer, p *Page, content RenderFunc, w Writer) error {
	rc := &RenderContext{Site: g, content: content}

	layout, ok := g.LookupTemplate(p.Layout)
	switch {
	case ok && layout.Kind == Layout && layout.Render != nil:
		slog.Debug("rendering page", "page", p.InputPath, "layout", layout.Name)
		layout.Render(out, p, rc)
	default:
		if p.Layout != "" {
			slog.Warn("layout not found, rendering content only", "page", p.InputPath, "layout", p.Layout)
		}
		rc.Content(out, p)
	}

	if err := w.WritePage(p.OutputPath, out.Bytes()); err != nil {
		return fmt.Errorf("writing %s: %w", p.OutputPath, err)
	}
	out.Reset()
	return nil
}
