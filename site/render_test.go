package site

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func layoutRender(out *Buffer, page *Page, rc *RenderContext) {
	out.Literal("<main>")
	rc.Content(out, page)
	out.Literal("</main>")
}

func contentRender(text string) RenderFunc {
	return func(out *Buffer, page *Page, rc *RenderContext) {
		out.Literal(text)
	}
}

func newSite(t *testing.T) *Global {
	t.Helper()
	g := NewGlobal()
	g.Register("index", Layout, layoutRender)
	g.Register("nav", Include, contentRender("<nav></nav>"))
	return g
}

func TestRenderPage(t *testing.T) {
	g := newSite(t)
	w := MemoryWriter{}
	out := &Buffer{}

	home := &Page{InputPath: "index.md", OutputPath: "index.html", Layout: "index"}
	g.AddPage(home)
	require.NoError(t, g.RenderInput(out, "index.md", contentRender("home"), w))
	require.Equal(t, "<main>home</main>", string(w["index.html"]))
	require.Equal(t, 0, out.Len())
}

func TestRenderPageFallsBackToContent(t *testing.T) {
	tests := []struct {
		name   string
		layout string
	}{
		{"missing layout", "nope"},
		{"include used as layout", "nav"},
		{"no layout", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newSite(t)
			w := MemoryWriter{}
			p := &Page{InputPath: "a.md", OutputPath: "a/index.html", Layout: tt.layout}
			require.NoError(t, g.RenderPage(&Buffer{}, p, contentRender("body"), w))
			require.Equal(t, "body", string(w["a/index.html"]))
		})
	}
}

func TestRenderInputUnknownPage(t *testing.T) {
	g := newSite(t)
	err := g.RenderInput(&Buffer{}, "missing.md", contentRender(""), MemoryWriter{})
	require.Error(t, err)
}

type failingWriter struct{}

func (failingWriter) WritePage(string, []byte) error { return errors.New("disk full") }

func TestRenderPageWriteError(t *testing.T) {
	g := newSite(t)
	p := &Page{InputPath: "a.md", OutputPath: "index.html", Layout: "index"}
	err := g.RenderPage(&Buffer{}, p, contentRender("x"), failingWriter{})
	require.ErrorContains(t, err, "disk full")
}

func TestInclude(t *testing.T) {
	g := newSite(t)
	rc := &RenderContext{Site: g}
	out := &Buffer{}

	rc.Include(out, &Page{}, "nav")
	require.Equal(t, "<nav></nav>", out.String())
}

func TestIncludeFailures(t *testing.T) {
	t.Run("unknown template", func(t *testing.T) {
		g := newSite(t)
		rc := &RenderContext{Site: g}
		require.Panics(t, func() { rc.Include(&Buffer{}, &Page{}, "footer") })

		var notFound *TemplateNotFoundError
		require.ErrorAs(t, g.Err(), &notFound)
		require.Equal(t, "footer", notFound.Name)
	})

	t.Run("layout used as include", func(t *testing.T) {
		g := newSite(t)
		rc := &RenderContext{Site: g}
		require.Panics(t, func() { rc.Include(&Buffer{}, &Page{}, "index") })

		var kindErr *TemplateKindError
		require.ErrorAs(t, g.Err(), &kindErr)
		require.Equal(t, `template "index" is a layout but was used as include`, kindErr.Error())
	})
}

func TestContentIsNotReentrant(t *testing.T) {
	g := newSite(t)
	w := MemoryWriter{}
	recursive := func(out *Buffer, page *Page, rc *RenderContext) {
		out.Literal("once")
		rc.Content(out, page)
	}
	p := &Page{InputPath: "a.md", OutputPath: "index.html", Layout: "index"}
	require.NoError(t, g.RenderPage(&Buffer{}, p, recursive, w))
	require.Equal(t, "<main>once</main>", string(w["index.html"]))
}

func TestRegisterReplaces(t *testing.T) {
	g := newSite(t)
	g.Register("nav", Include, contentRender("<nav>2</nav>"))
	require.Len(t, g.Templates, 2)

	tmpl, ok := g.LookupTemplate("nav")
	require.True(t, ok)
	out := &Buffer{}
	tmpl.Render(out, &Page{}, &RenderContext{Site: g})
	require.Equal(t, "<nav>2</nav>", out.String())
}

func TestFileWriter(t *testing.T) {
	root := t.TempDir()
	w := FileWriter{Root: root}
	require.NoError(t, w.WritePage("blog/post/index.html", []byte("hi")))
}
