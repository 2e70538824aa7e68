package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartvision/internal/infra/summarizer"
)

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "summarizer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadSummarizerConfig(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		expectErr string
		validate  func(*testing.T, summarizer.Config)
	}{
		{
			name: "partial override keeps defaults",
			yaml: "summary_ratio: 0.25\nmax_sentences: 4\n",
			validate: func(t *testing.T, cfg summarizer.Config) {
				assert.Equal(t, 0.25, cfg.SummaryRatio)
				assert.Equal(t, 4, cfg.MaxSentences)
				assert.Equal(t, summarizer.DefaultMinSentences, cfg.MinSentences)
				assert.Equal(t, summarizer.DefaultKeywords(), cfg.Keywords)
			},
		},
		{
			name: "keywords replace the default list",
			yaml: "keywords:\n  - summary\n  - conclusion\n",
			validate: func(t *testing.T, cfg summarizer.Config) {
				assert.Equal(t, []string{"summary", "conclusion"}, cfg.Keywords)
			},
		},
		{
			name:      "invalid bounds",
			yaml:      "min_sentences: 6\nmax_sentences: 3\n",
			expectErr: "validation failed",
		},
		{
			name:      "malformed yaml",
			yaml:      "summary_ratio: [oops\n",
			expectErr: "failed to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadSummarizerConfig(writeYAML(t, tt.yaml))
			if tt.expectErr != "" {
				assert.ErrorContains(t, err, tt.expectErr)
				return
			}
			require.NoError(t, err)
			tt.validate(t, cfg)
		})
	}
}

func TestLoadSummarizerConfig_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := LoadSummarizerConfig("")
	require.NoError(t, err)
	assert.Equal(t, summarizer.DefaultConfig(), cfg)
}

func TestLoadSummarizerConfig_MissingFile(t *testing.T) {
	_, err := LoadSummarizerConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read")
}
