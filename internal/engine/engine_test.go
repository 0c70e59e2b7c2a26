package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jwtly10/mite/site"
)

const program = `package site

import mite "github.com/jwtly10/mite/site"

func content(out *mite.Buffer, page *mite.Page, rc *mite.RenderContext) {
	out.Literal("hello ")
	out.Esc(page.Title)
}

func layout(out *mite.Buffer, page *mite.Page, rc *mite.RenderContext) {
	out.Literal("<main>")
	rc.Content(out, page)
	out.Literal("</main>")
}

func Main(site *mite.Global, w mite.Writer) error {
	site.Register("index", mite.Layout, layout)
	site.AddPage(&mite.Page{Title: site.Title + " & co", Layout: "index", InputPath: "index.md", OutputPath: "index.html"})
	out := &mite.Buffer{}
	return site.RenderInput(out, "index.md", content, w)
}
`

func TestRun(t *testing.T) {
	g := site.NewGlobal()
	g.Title = "mite"
	w := site.MemoryWriter{}

	require.NoError(t, Run(context.Background(), []byte(program), g, w))
	require.Equal(t, "<main>hello mite &amp; co</main>", string(w["index.html"]))
	require.Len(t, g.Pages, 1)
}

func TestRunFailures(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{
			name: "syntax error",
			src:  "package site\n\nfunc Main( {\n",
		},
		{
			name: "no entry point",
			src:  "package site\n\nfunc Other() {}\n",
		},
		{
			name: "entry point returns an error",
			src: `package site

import (
	"errors"

	mite "github.com/jwtly10/mite/site"
)

func Main(site *mite.Global, w mite.Writer) error {
	return errors.New("boom")
}
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Run(context.Background(), []byte(tt.src), site.NewGlobal(), site.MemoryWriter{})
			require.Error(t, err)
		})
	}
}

func TestRunReportsMissingTemplate(t *testing.T) {
	src := `package site

import mite "github.com/jwtly10/mite/site"

func content(out *mite.Buffer, page *mite.Page, rc *mite.RenderContext) {
	rc.Include(out, page, "footer")
}

func Main(site *mite.Global, w mite.Writer) error {
	site.AddPage(&mite.Page{InputPath: "index.md", OutputPath: "index.html"})
	return site.RenderInput(&mite.Buffer{}, "index.md", content, w)
}
`
	g := site.NewGlobal()
	err := Run(context.Background(), []byte(src), g, site.MemoryWriter{})

	var notFound *site.TemplateNotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "footer", notFound.Name)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Run(ctx, []byte(program), site.NewGlobal(), site.MemoryWriter{})
	require.ErrorIs(t, err, context.Canceled)
}
