package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)
	require.Equal(t, DefaultTitle, cfg.Title)
	require.Equal(t, DefaultGenerated, cfg.Generated)
	require.Equal(t, DefaultAddr, cfg.Addr)
	require.Equal(t, 300*time.Millisecond, cfg.DebounceDuration())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
title: My Notes
description: things I wrote down
url: https://example.com
favicon: /favicon.png
debounce: 1s
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "My Notes", cfg.Title)
	require.Equal(t, "things I wrote down", cfg.Description)
	require.Equal(t, "https://example.com", cfg.URL)
	require.Equal(t, "/favicon.png", cfg.Favicon)
	require.Equal(t, DefaultGenerated, cfg.Generated)
	require.Equal(t, time.Second, cfg.DebounceDuration())
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("MITE_TEST_URL", "https://notes.example.org")
	path := writeConfig(t, "url: ${MITE_TEST_URL}\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://notes.example.org", cfg.URL)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed yaml", "title: [unclosed\n"},
		{"bad debounce", "debounce: soon\n"},
		{"negative debounce", "debounce: -1s\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
		})
	}
}
