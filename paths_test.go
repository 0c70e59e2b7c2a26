package mite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		mdPath string
		want   string
	}{
		{name: "root page", mdPath: "index.md", want: "index.html"},
		{name: "nested page", mdPath: "blog/first/index.md", want: filepath.Join("blog", "first", "index.html")},
		{name: "named page", mdPath: "about/me.md", want: filepath.Join("about", "index.html")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ResolveOutputPath(tt.mdPath))
		})
	}
}

func TestIdentifier(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"index.md", "index"},
		{"blog/my-post.md", "blog_my_post"},
		{"partials/nav.mite", "partials_nav"},
		{"2024/notes.md", "2024_notes"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			require.Equal(t, tt.want, Identifier(tt.path))
		})
	}
}

func TestPageURL(t *testing.T) {
	require.Equal(t, "/", PageURL("index.html"))
	require.Equal(t, "/blog/", PageURL(filepath.Join("blog", "index.html")))
	require.Equal(t, "/blog/first/", PageURL(filepath.Join("blog", "first", "index.html")))
}
