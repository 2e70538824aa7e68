package summarizer

import (
	"errors"
	"fmt"
)

// Default tuning constants for the extractive summarizer.
const (
	// DefaultMinTextLength is the minimum number of characters accepted for summarization.
	DefaultMinTextLength = 10

	// DefaultShortCircuitSentences is the sentence count at or below which the input
	// is returned unchanged.
	DefaultShortCircuitSentences = 3

	// DefaultSummaryRatio is the fraction of sentences kept before clamping.
	DefaultSummaryRatio = 0.3

	// DefaultMinSentences and DefaultMaxSentences bound the number of selected sentences.
	DefaultMinSentences = 2
	DefaultMaxSentences = 5

	// DefaultShortSentenceWords and DefaultLongSentenceWords delimit the ideal
	// sentence length (exclusive on both ends).
	DefaultShortSentenceWords = 5
	DefaultLongSentenceWords  = 25

	// DefaultEarlySentences is the number of leading sentences that get the early position weight.
	DefaultEarlySentences = 3

	DefaultEdgePositionWeight  = 2.0
	DefaultEarlyPositionWeight = 1.5
	DefaultIdealLengthWeight   = 1.5
	DefaultShortLengthWeight   = 0.8
	DefaultKeywordWeight       = 1.7

	// DefaultFallbackFragments is the number of period-delimited fragments kept by the naive fallback.
	DefaultFallbackFragments = 3
)

// DefaultKeywords returns the salience keywords. Matching is a lowercase substring test.
func DefaultKeywords() []string {
	return []string{
		"important", "significant", "key", "main", "crucial", "essential",
		"primary", "critical", "vital", "necessary", "fundamental",
	}
}

// Config holds every threshold and weight used by the extractive summarizer.
// The zero value is not usable; start from DefaultConfig.
type Config struct {
	MinTextLength         int      `yaml:"min_text_length"`
	ShortCircuitSentences int      `yaml:"short_circuit_sentences"`
	SummaryRatio          float64  `yaml:"summary_ratio"`
	MinSentences          int      `yaml:"min_sentences"`
	MaxSentences          int      `yaml:"max_sentences"`
	ShortSentenceWords    int      `yaml:"short_sentence_words"`
	LongSentenceWords     int      `yaml:"long_sentence_words"`
	EarlySentences        int      `yaml:"early_sentences"`
	EdgePositionWeight    float64  `yaml:"edge_position_weight"`
	EarlyPositionWeight   float64  `yaml:"early_position_weight"`
	IdealLengthWeight     float64  `yaml:"ideal_length_weight"`
	ShortLengthWeight     float64  `yaml:"short_length_weight"`
	KeywordWeight         float64  `yaml:"keyword_weight"`
	Keywords              []string `yaml:"keywords"`
	FallbackFragments     int      `yaml:"fallback_fragments"`
}

// DefaultConfig returns the configuration used by the read-aloud feature.
func DefaultConfig() Config {
	return Config{
		MinTextLength:         DefaultMinTextLength,
		ShortCircuitSentences: DefaultShortCircuitSentences,
		SummaryRatio:          DefaultSummaryRatio,
		MinSentences:          DefaultMinSentences,
		MaxSentences:          DefaultMaxSentences,
		ShortSentenceWords:    DefaultShortSentenceWords,
		LongSentenceWords:     DefaultLongSentenceWords,
		EarlySentences:        DefaultEarlySentences,
		EdgePositionWeight:    DefaultEdgePositionWeight,
		EarlyPositionWeight:   DefaultEarlyPositionWeight,
		IdealLengthWeight:     DefaultIdealLengthWeight,
		ShortLengthWeight:     DefaultShortLengthWeight,
		KeywordWeight:         DefaultKeywordWeight,
		Keywords:              DefaultKeywords(),
		FallbackFragments:     DefaultFallbackFragments,
	}
}

// Validate checks the configuration for values the pipeline cannot work with.
// All problems are reported together.
func (c Config) Validate() error {
	var errs []error
	if c.MinTextLength < 0 {
		errs = append(errs, fmt.Errorf("min_text_length must be >= 0, got %d", c.MinTextLength))
	}
	if c.ShortCircuitSentences < 0 {
		errs = append(errs, fmt.Errorf("short_circuit_sentences must be >= 0, got %d", c.ShortCircuitSentences))
	}
	if c.SummaryRatio <= 0 || c.SummaryRatio > 1 {
		errs = append(errs, fmt.Errorf("summary_ratio must be in (0, 1], got %g", c.SummaryRatio))
	}
	if c.MinSentences < 1 {
		errs = append(errs, fmt.Errorf("min_sentences must be >= 1, got %d", c.MinSentences))
	}
	if c.MaxSentences < c.MinSentences {
		errs = append(errs, fmt.Errorf("max_sentences (%d) must be >= min_sentences (%d)", c.MaxSentences, c.MinSentences))
	}
	if c.ShortSentenceWords < 0 || c.LongSentenceWords <= c.ShortSentenceWords {
		errs = append(errs, fmt.Errorf("sentence word bounds must satisfy 0 <= short (%d) < long (%d)",
			c.ShortSentenceWords, c.LongSentenceWords))
	}
	if c.EarlySentences < 0 {
		errs = append(errs, fmt.Errorf("early_sentences must be >= 0, got %d", c.EarlySentences))
	}
	weights := []struct {
		name  string
		value float64
	}{
		{"edge_position_weight", c.EdgePositionWeight},
		{"early_position_weight", c.EarlyPositionWeight},
		{"ideal_length_weight", c.IdealLengthWeight},
		{"short_length_weight", c.ShortLengthWeight},
		{"keyword_weight", c.KeywordWeight},
	}
	for _, w := range weights {
		if w.value <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %g", w.name, w.value))
		}
	}
	if c.FallbackFragments < 1 {
		errs = append(errs, fmt.Errorf("fallback_fragments must be >= 1, got %d", c.FallbackFragments))
	}
	return errors.Join(errs...)
}
