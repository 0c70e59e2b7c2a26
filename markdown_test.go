package mite

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanRenderMarkdown(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "plain paragraph",
			src:  "plain text",
			want: "<p>plain text</p>\n",
		},
		{
			name: "prose is escaped",
			src:  `5 > 3 & "q" 'x'`,
			want: "<p>5 &gt; 3 &amp; &quot;q&quot; &#39;x&#39;</p>\n",
		},
		{
			name: "heading with emphasis",
			src:  "# Hello *world*",
			want: "<h1>Hello <i>world</i></h1>\n",
		},
		{
			name: "heading level",
			src:  "### Three",
			want: "<h3>Three</h3>\n",
		},
		{
			name: "single list item",
			src:  "- a",
			want: "<ul><li>a</li></ul>\n",
		},
		{
			name: "list items are separated by newlines",
			src:  "* a\n* b",
			want: "<ul><li>a</li>\n<li>b</li></ul>\n",
		},
		{
			name: "open checkbox",
			src:  "- [ ] todo",
			want: `<ul><li><input type="checkbox" disabled>todo</li></ul>` + "\n",
		},
		{
			name: "paragraph is closed by a list",
			src:  "text\n- item",
			want: "<p>text</p>\n<ul><li>item</li></ul>\n",
		},
		{
			name: "bold italic",
			src:  "***both***",
			want: "<p><strong><i>both</i></strong></p>\n",
		},
		{
			name: "mixed bold italic markers",
			src:  "**_both_**",
			want: "<p><strong><i>both</i></strong></p>\n",
		},
		{
			name: "intraword underscores are literal",
			src:  "snake_case_name",
			want: "<p>snake_case_name</p>\n",
		},
		{
			name: "unmatched marker is literal",
			src:  "2 * 3",
			want: "<p>2 * 3</p>\n",
		},
		{
			name: "inline code span passes through",
			src:  "a <? STR(page.Title) ?> b",
			want: "<p>a <? STR(page.Title) ?> b</p>\n",
		},
		{
			name: "emphasis skips embedded code",
			src:  "*x <? y*z ?> w*",
			want: "<p><i>x <? y*z ?> w</i></p>\n",
		},
		{
			name: "unterminated code span is prose",
			src:  "a <? b",
			want: "<p>a &lt;? b</p>\n",
		},
		{
			name: "fence drops language tag and escapes",
			src:  "```go\nx := 1 < 2\n```",
			want: "<pre><code>x := 1 &lt; 2\n</code></pre>\n",
		},
		{
			name: "code block spanning lines",
			src:  "<?\nfor i := 0; i < 3; i++ {\n?>\n<li>x</li>\n<? } ?>",
			want: "<?\nfor i := 0; i < 3; i++ {\n?>\n<li>x</li>\n<? } ?>\n",
		},
		{
			name: "markup after a leading code span is verbatim",
			src:  "<? for _, p := range site.Pages { ?><li><? STR(p.Title) ?></li><? } ?>",
			want: "<? for _, p := range site.Pages { ?><li><? STR(p.Title) ?></li><? } ?>\n",
		},
		{
			name: "text after a leading code span is inline parsed",
			src:  "<? x ?> *y*",
			want: "<? x ?> <i>y</i>\n",
		},
		{
			name: "code span opened mid line spans lines",
			src:  "Posts: <? for _, p := range site.Pages {\nSTR(p.Title) } ?> done",
			want: "<p>Posts: <? for _, p := range site.Pages {\nSTR(p.Title) } ?> done</p>\n",
		},
		{
			name: "heading without a space",
			src:  "#NoSpace",
			want: "<h1>NoSpace</h1>\n",
		},
		{
			name: "raw markup followed by markdown",
			src:  "<span>x</span> and *y*",
			want: "<span>x</span> and <i>y</i>\n",
		},
		{
			name: "unclosed front matter is body",
			src:  "---\nfoo",
			want: "<hr>\n<p>foo</p>\n",
		},
		{
			name: "crlf line endings",
			src:  "a\r\nb",
			want: "<p>a\nb</p>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderMarkdown([]byte(tt.src))
			require.NoError(t, err)
			require.Equal(t, tt.want, string(got.Body))
		})
	}
}

func TestCanExtractFrontMatter(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantFM   string
		wantBody string
	}{
		{
			name:     "dashes",
			src:      "---\npage.Title = \"x\"\n---\nbody",
			wantFM:   "<?\npage.Title = \"x\"\n?>\n",
			wantBody: "<p>body</p>\n",
		},
		{
			name:     "fenced",
			src:      "```mite\npage.Title = \"x\"\n```\nbody",
			wantFM:   "<?\npage.Title = \"x\"\n?>\n",
			wantBody: "<p>body</p>\n",
		},
		{
			name:     "empty block",
			src:      "---\n---\n",
			wantFM:   "<?\n?>\n",
			wantBody: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderMarkdown([]byte(tt.src))
			require.NoError(t, err)
			require.True(t, got.HasFrontMatter)
			require.Equal(t, tt.wantFM, string(got.FrontMatter))
			require.Equal(t, tt.wantBody, string(got.Body))
		})
	}

	t.Run("no front matter", func(t *testing.T) {
		got, err := RenderMarkdown([]byte("# Title\n"))
		require.NoError(t, err)
		require.False(t, got.HasFrontMatter)
		require.Empty(t, got.FrontMatter)
		require.Equal(t, "# Title\n", string(got.Markdown))
	})
}

func TestRenderMarkdownRejectsNullBytes(t *testing.T) {
	_, err := RenderMarkdown([]byte("a\x00b"))
	require.ErrorIs(t, err, ErrNullByte)
}

func TestRenderedProseSurvivesTranspile(t *testing.T) {
	inputs := []string{
		"# Title\n\nSome *text* & more.\n",
		"- a\n- b\n\n> quote\n",
		"```\n<not code>\n```\n",
	}
	for _, in := range inputs {
		rendered, err := RenderMarkdown([]byte(in))
		require.NoError(t, err)

		prog, err := Transpile(rendered.Body)
		require.NoError(t, err)
		require.False(t, prog.HasCode())

		var buf bytes.Buffer
		require.NoError(t, prog.Replay(&buf))
		require.Equal(t, string(rendered.Body), buf.String())
	}
}
