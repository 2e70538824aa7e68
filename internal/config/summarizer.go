package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"smartvision/internal/infra/summarizer"
)

// LoadSummarizerConfig returns the summarizer tuning. With an empty path it is
// summarizer.DefaultConfig(); otherwise the YAML file at path is applied on top of
// the defaults, so fields absent from the file keep their default value.
//
// Example file:
//
//	summary_ratio: 0.25
//	max_sentences: 4
//	keywords: [important, key, summary]
func LoadSummarizerConfig(path string) (summarizer.Config, error) {
	cfg := summarizer.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	// #nosec G304 -- path comes from SUMMARIZER_CONFIG_FILE or a CLI flag, not user input
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read summarizer config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse summarizer config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("summarizer config validation failed: %w", err)
	}
	return cfg, nil
}
