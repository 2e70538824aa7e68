package summarizer

import "strings"

// Sentence is a normalized sentence with its position in the source and its score.
type Sentence struct {
	Content       string
	OriginalIndex int
	Score         float64
}

// PositionScore weights the first and last sentences highest, then the early ones.
func (c Config) PositionScore(index, total int) float64 {
	switch {
	case index == 0 || index == total-1:
		return c.EdgePositionWeight
	case index < c.EarlySentences:
		return c.EarlyPositionWeight
	default:
		return 1.0
	}
}

// LengthScore favours sentences of moderate length and penalizes very short ones.
func (c Config) LengthScore(words int) float64 {
	switch {
	case words > c.ShortSentenceWords && words < c.LongSentenceWords:
		return c.IdealLengthWeight
	case words <= c.ShortSentenceWords:
		return c.ShortLengthWeight
	default:
		return 1.0
	}
}

// ImportanceScore boosts sentences containing any salience keyword.
// The test is a substring match, so "keyboard" matches "key".
func (c Config) ImportanceScore(content string) float64 {
	lower := strings.ToLower(content)
	for _, kw := range c.Keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return c.KeywordWeight
		}
	}
	return 1.0
}

// ScoreSentences normalizes and scores raw sentences in extraction order.
func (c Config) ScoreSentences(raw []string) []Sentence {
	total := len(raw)
	scored := make([]Sentence, 0, total)
	for i, r := range raw {
		content := Normalize(r)
		score := c.PositionScore(i, total) *
			c.LengthScore(CountWords(content)) *
			c.ImportanceScore(content)
		scored = append(scored, Sentence{
			Content:       content,
			OriginalIndex: i,
			Score:         score,
		})
	}
	return scored
}
