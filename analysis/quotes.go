package analysis

import (
	"sort"
	"strings"

	"capsule/models"
)

// Signal terms that mark a segment as quotable: emphasis, questions,
// causal connectors, and discourse structure.
var quoteIndicators = []string{
	"important", "key", "remember", "crucial", "essential",
	"what", "why", "how", "because", "therefore", "however",
	"first", "second", "finally", "conclusion", "summary",
}

const (
	minQuoteWords   = 10
	longQuoteWords  = 20
	indicatorWeight = 0.1
	lengthBonus     = 0.2
)

// QuoteConfig bounds how many quotes survive and how relevant they must be.
type QuoteConfig struct {
	Threshold float64
	Cap       int
}

func DefaultQuoteConfig() QuoteConfig {
	return QuoteConfig{Threshold: 0.2, Cap: 10}
}

// ExtractQuotes scores transcript segments for quotability and retains the
// top scorers. Pure function over (segments, lexicon, thresholds): segments
// under ten words are skipped, each matched indicator adds 0.1, segments
// over twenty words get a 0.2 bonus, and ties keep chronological order.
func ExtractQuotes(segments []*models.TranscriptSegment, cfg QuoteConfig) []*models.Quote {
	var quotes []*models.Quote

	for _, segment := range segments {
		text := strings.TrimSpace(segment.Text)
		words := len(strings.Fields(text))
		if words < minQuoteWords {
			continue
		}

		score := 0.0
		textLower := strings.ToLower(text)
		for _, indicator := range quoteIndicators {
			if strings.Contains(textLower, indicator) {
				score += indicatorWeight
			}
		}

		if words > longQuoteWords {
			score += lengthBonus
		}

		if score > cfg.Threshold {
			quotes = append(quotes, &models.Quote{
				Text:           text,
				StartTime:      segment.StartTime,
				EndTime:        segment.EndTime,
				QuoteType:      "key_point",
				RelevanceScore: score,
			})
		}
	}

	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].RelevanceScore > quotes[j].RelevanceScore
	})

	if len(quotes) > cfg.Cap {
		quotes = quotes[:cfg.Cap]
	}
	return quotes
}
