package mite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jwtly10/mite/site"
)

func writeFile(t *testing.T, root, path, content string) {
	t.Helper()
	full := filepath.Join(root, path)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
}

func TestTemplateKindFor(t *testing.T) {
	require.Equal(t, site.Layout, TemplateKindFor("index.mite"))
	require.Equal(t, site.Layout, TemplateKindFor(filepath.Join("blog", "blog.mite")))
	require.Equal(t, site.Include, TemplateKindFor(filepath.Join("partials", "nav.mite")))
	require.Equal(t, site.Include, TemplateKindFor(filepath.Join("theme", "includes", "footer.mite")))
}

func TestRegistryTemplates(t *testing.T) {
	reg := NewRegistry(t.TempDir())

	index, err := reg.AddTemplate("index.mite")
	require.NoError(t, err)
	require.Equal(t, "index", index.Name)

	again, err := reg.AddTemplate("./index.mite")
	require.NoError(t, err)
	require.Same(t, index, again)

	_, err = reg.AddTemplate(filepath.Join("other", "index.mite"))
	require.Error(t, err)

	nav, err := reg.AddTemplate(filepath.Join("partials", "nav.mite"))
	require.NoError(t, err)
	require.Equal(t, site.Include, nav.Kind)

	got, ok := reg.Template("nav")
	require.True(t, ok)
	require.Same(t, nav, got)
	require.Len(t, reg.Templates, 2)
}

func TestDefaultLayoutFor(t *testing.T) {
	reg := NewRegistry(t.TempDir())
	for _, path := range []string{
		"index.mite",
		filepath.Join("blog", "a_list.mite"),
		filepath.Join("blog", "blog.mite"),
		filepath.Join("partials", "partials.mite"),
	} {
		_, err := reg.AddTemplate(path)
		require.NoError(t, err)
	}

	require.Equal(t, "index", reg.DefaultLayoutFor("index.md"))
	require.Equal(t, "index", reg.DefaultLayoutFor(filepath.Join("about", "index.md")))
	require.Equal(t, "blog", reg.DefaultLayoutFor(filepath.Join("blog", "index.md")))
	require.Equal(t, "blog", reg.DefaultLayoutFor(filepath.Join("blog", "first", "index.md")))
	// includes are never layouts
	require.Equal(t, "index", reg.DefaultLayoutFor(filepath.Join("partials", "index.md")))

	empty := NewRegistry(t.TempDir())
	require.Equal(t, DefaultLayout, empty.DefaultLayoutFor(filepath.Join("a", "b", "index.md")))
}

func TestTemplateCompileOnce(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "index.mite", "<html><? CONTENT() ?></html>")

	reg := NewRegistry(root)
	tmpl, err := reg.AddTemplate("index.mite")
	require.NoError(t, err)

	prog, err := tmpl.Compile(root)
	require.NoError(t, err)
	require.Equal(t, Program{emit("<html>", 1), exec("CONTENT()", 1), emit("</html>", 1)}, prog)

	writeFile(t, root, "index.mite", "changed")
	again, err := tmpl.Compile(root)
	require.NoError(t, err)
	require.Equal(t, prog, again)

	missing, err := reg.AddTemplate("missing.mite")
	require.NoError(t, err)
	_, err = missing.Compile(root)
	require.Error(t, err)
}

func TestRegistryPages(t *testing.T) {
	reg := NewRegistry(".")
	doc := &Document{Metadata: MetaData{Source: filepath.Join("blog", "index.md")}}
	reg.AddPage(doc)

	got, ok := reg.PageByInput("blog/./index.md")
	require.True(t, ok)
	require.Same(t, doc, got)
	require.Len(t, reg.Pages, 1)
}
