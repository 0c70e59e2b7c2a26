package site

import (
	"fmt"
	"log/slog"
)

// RenderFunc is the signature of every generated template and page content routine.
type RenderFunc func(out *Buffer, page *Page, rc *RenderContext)

// TemplateKind tells layouts from includes.
type TemplateKind uint8

const (
	// Layout templates can be selected by a page and may call CONTENT()
	Layout TemplateKind = iota
	// Include templates are only reachable by name through INCLUDE()
	Include
)

func (k TemplateKind) String() string {
	switch k {
	case Layout:
		return "layout"
	case Include:
		return "include"
	default:
		return fmt.Sprintf("TemplateKind(%d)", k)
	}
}

type Template struct {
	Name   string
	Kind   TemplateKind
	Render RenderFunc
}

// TemplateNotFoundError is raised when a template name does not resolve.
type TemplateNotFoundError struct {
	Name string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("template %q not found", e.Name)
}

// TemplateKindError is raised when a layout is included or an include is used as layout.
type TemplateKindError struct {
	Name string
	Want TemplateKind
	Got  TemplateKind
}

func (e *TemplateKindError) Error() string {
	return fmt.Sprintf("template %q is a %s but was used as %s", e.Name, e.Got, e.Want)
}

// RenderContext is threaded through every template call. It carries the content routine
// of the page being rendered so a shared layout can render whichever page is active.
type RenderContext struct {
	Site *Global

	content   RenderFunc
	inContent bool
}

// Content renders the active page's own body.
func (rc *RenderContext) Content(out *Buffer, page *Page) {
	if rc.inContent {
		slog.Warn("CONTENT() called from page content, ignoring", "page", page.InputPath)
		return
	}
	rc.inContent = true
	defer func() { rc.inContent = false }()
	rc.content(out, page, rc)
}

// Include renders the named include template. An unknown name or a layout name is
// fatal for the build.
func (rc *RenderContext) Include(out *Buffer, page *Page, name string) {
	t := rc.Site.Template(name)
	if t.Kind != Include {
		rc.Site.fail(&TemplateKindError{Name: name, Want: Include, Got: t.Kind})
	}
	t.Render(out, page, rc)
}
