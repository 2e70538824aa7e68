// Package summarizer implements the deterministic extractive summarizer used by the
// read-aloud feature. Sentences are scored by position, length and keyword salience,
// the best ones are kept within a length budget, and the selection is returned in
// document order.
//
// The summarizer never fails past its boundary: a fault in the scoring pipeline falls
// back to a naive first-fragments summary, and a fault there returns the input as is.
package summarizer

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"smartvision/internal/utils/text"
)

// IdentityErrorMessage is reported when both the precise and the naive strategies failed.
const IdentityErrorMessage = "Summarization failed, returning original text"

// Outcome tells which tier produced a Result.
type Outcome string

const (
	// OutcomeSummarized means the scoring pipeline selected a subset of sentences.
	OutcomeSummarized Outcome = "summarized"
	// OutcomeUnchanged means the text had too few sentences and was returned as is.
	OutcomeUnchanged Outcome = "unchanged"
	// OutcomeFallback means the naive first-fragments summary was used.
	OutcomeFallback Outcome = "fallback"
	// OutcomeFailed means every strategy failed and the input was returned.
	OutcomeFailed Outcome = "failed"
)

// Result is the outcome of a single summarization.
// Length metrics are only meaningful when Outcome is OutcomeSummarized.
type Result struct {
	Summary         string
	Outcome         Outcome
	SentenceCount   int
	Selected        []Sentence
	OriginalLength  int
	SummaryLength   int
	CompressionRate int

	// Cause is the fault that sent the call down to a degraded tier.
	Cause error
}

// HasMetrics reports whether the length metrics were computed.
func (r Result) HasMetrics() bool { return r.Outcome == OutcomeSummarized }

// Fallback reports whether the naive summary was used.
func (r Result) Fallback() bool { return r.Outcome == OutcomeFallback }

// ErrorMessage returns the caller-visible error indicator, empty unless every tier failed.
func (r Result) ErrorMessage() string {
	if r.Outcome == OutcomeFailed {
		return IdentityErrorMessage
	}
	return ""
}

// FaultError wraps a panic raised inside a summarization stage.
type FaultError struct {
	Stage string
	Value any
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("summarizer %s stage faulted: %v", e.Stage, e.Value)
}

// Extractive is the sentence-scoring summarizer. It holds no mutable state and is
// safe for concurrent use.
type Extractive struct {
	config   Config
	segment  func(string) []string
	fallback func(string) string
}

// NewExtractive validates cfg and returns a summarizer using it.
func NewExtractive(cfg Config) (*Extractive, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid summarizer config: %w", err)
	}
	e := &Extractive{config: cfg, segment: Segment}
	e.fallback = e.naiveSummary
	return e, nil
}

// NewDefault returns a summarizer with DefaultConfig.
func NewDefault() *Extractive {
	e, err := NewExtractive(DefaultConfig())
	if err != nil {
		panic(err)
	}
	return e
}

// Config returns the configuration in use.
func (e *Extractive) Config() Config { return e.config }

// Summarize produces a summary of text. It does not validate text; callers reject
// empty or too-short input before calling it.
func (e *Extractive) Summarize(input string) Result {
	res, err := e.precise(input)
	if err == nil {
		return res
	}

	summary, fbErr := e.safeFallback(input)
	if fbErr == nil {
		return Result{Summary: summary, Outcome: OutcomeFallback, Cause: err}
	}

	return Result{Summary: input, Outcome: OutcomeFailed, Cause: errors.Join(err, fbErr)}
}

// precise runs the scoring pipeline, converting any panic into a FaultError.
func (e *Extractive) precise(input string) (res Result, err error) {
	stage := "segment"
	defer func() {
		if rec := recover(); rec != nil {
			err = &FaultError{Stage: stage, Value: rec}
		}
	}()

	raw := e.segment(input)
	if len(raw) <= e.config.ShortCircuitSentences {
		return Result{Summary: input, Outcome: OutcomeUnchanged, SentenceCount: len(raw)}, nil
	}

	stage = "score"
	scored := e.config.ScoreSentences(raw)

	stage = "select"
	selected := e.config.Select(scored)

	parts := make([]string, len(selected))
	for i, s := range selected {
		parts[i] = s.Content
	}
	summary := strings.Join(parts, " ")

	originalLength := text.CountRunes(input)
	summaryLength := text.CountRunes(summary)

	return Result{
		Summary:         summary,
		Outcome:         OutcomeSummarized,
		SentenceCount:   len(raw),
		Selected:        selected,
		OriginalLength:  originalLength,
		SummaryLength:   summaryLength,
		CompressionRate: CompressionRate(originalLength, summaryLength),
	}, nil
}

func (e *Extractive) safeFallback(input string) (summary string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &FaultError{Stage: "fallback", Value: rec}
		}
	}()
	return e.fallback(input), nil
}

// naiveSummary keeps the first period-delimited fragments and closes them with a period.
func (e *Extractive) naiveSummary(input string) string {
	fragments := strings.Split(input, ".")
	if len(fragments) > e.config.FallbackFragments {
		fragments = fragments[:e.config.FallbackFragments]
	}
	return strings.Join(fragments, ".") + "."
}

// SummaryLength returns how many sentences are kept out of total:
// ceil(total*ratio) clamped into [MinSentences, MaxSentences].
func (c Config) SummaryLength(total int) int {
	n := int(math.Ceil(float64(total) * c.SummaryRatio))
	if n > c.MaxSentences {
		n = c.MaxSentences
	}
	if n < c.MinSentences {
		n = c.MinSentences
	}
	return n
}

// Select picks the highest scoring sentences and returns them in document order.
// Equal scores keep their original relative order.
func (c Config) Select(scored []Sentence) []Sentence {
	ranked := make([]Sentence, len(scored))
	copy(ranked, scored)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	k := c.SummaryLength(len(ranked))
	if k > len(ranked) {
		k = len(ranked)
	}
	top := ranked[:k]

	sort.SliceStable(top, func(i, j int) bool {
		return top[i].OriginalIndex < top[j].OriginalIndex
	})
	return top
}

// CompressionRate returns the percentage of characters removed, rounded half up.
func CompressionRate(originalLength, summaryLength int) int {
	if originalLength == 0 {
		return 0
	}
	ratio := 1 - float64(summaryLength)/float64(originalLength)
	return int(math.Floor(ratio*100 + 0.5))
}
