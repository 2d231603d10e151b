// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  map[string]string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, TavilyKey, "  tvly-abc123  \n")
				writeFile(t, dir, OpenAIKey, "sk-xyz789")
				return dir
			},
			want: map[string]string{
				TavilyKey: "tvly-abc123",
				OpenAIKey: "sk-xyz789",
			},
		},
		{
			name: "returns empty map for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: map[string]string{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, GeminiKey, "valid-key")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: map[string]string{
				GeminiKey: "valid-key",
			},
		},
		{
			name: "skips dotfiles and subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				writeFile(t, dir, HuggingFaceKey, "hf_real")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: map[string]string{
				HuggingFaceKey: "hf_real",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	writeFile(t, dir, ".env", "TAVILY_API_KEY=tvly-from-env\nOPENAI_API_KEY=sk-from-env\nUNRELATED=x\n")

	s := map[string]string{OpenAIKey: "sk-from-file"}
	require.NoError(t, LoadDotEnv(path, s))

	assert.Equal(t, "tvly-from-env", s[TavilyKey])
	assert.Equal(t, "sk-from-file", s[OpenAIKey], "existing secrets win over dotenv values")
	assert.NotContains(t, s, "UNRELATED")
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	s := map[string]string{}
	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env"), s))
	assert.Empty(t, s)
}

func TestIsPlaceholder(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"your-openai-key-here", true},
		{"Set your API KEY Here", true},
		{"sk-live-123", false},
		{"tvly-abc", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPlaceholder(tt.value))
		})
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
