package analysis

import (
	"fmt"
	"testing"

	"capsule/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func segment(text string, start, end float64) *models.TranscriptSegment {
	return &models.TranscriptSegment{Text: text, StartTime: start, EndTime: end}
}

func TestExtractQuotesSkipsShortSegments(t *testing.T) {
	segments := []*models.TranscriptSegment{
		segment("this is important", 0, 2),
		segment("remember the key point because it is crucial here", 2, 5),
	}

	quotes := ExtractQuotes(segments, DefaultQuoteConfig())

	// The first segment carries indicators but is under ten words.
	// The second has nine words and is skipped too.
	assert.Empty(t, quotes)
}

func TestExtractQuotesScoring(t *testing.T) {
	// Ten words, one indicator: 0.1, below the 0.2 threshold.
	low := segment("it is important that we keep all of this tidy", 0, 3)

	// Ten words, three indicators: 0.3.
	mid := segment("remember why this is important for all of us here", 3, 6)

	// Twenty-one words, two indicators plus the length bonus: 0.4.
	high := segment(
		"the key point therefore is that one two three four five six seven eight nine ten eleven twelve thirteen fourteen fifteen",
		6, 12,
	)

	quotes := ExtractQuotes([]*models.TranscriptSegment{low, mid, high}, DefaultQuoteConfig())

	require.Len(t, quotes, 2)
	assert.Equal(t, high.Text, quotes[0].Text)
	assert.Equal(t, mid.Text, quotes[1].Text)
	assert.InDelta(t, 0.4, quotes[0].RelevanceScore, 1e-9)
	assert.InDelta(t, 0.3, quotes[1].RelevanceScore, 1e-9)

	for _, q := range quotes {
		assert.Equal(t, "key_point", q.QuoteType)
	}
}

func TestExtractQuotesTieKeepsChronologicalOrder(t *testing.T) {
	first := segment("remember why this is important for all of us here", 0, 3)
	second := segment("remember why this is important for everyone watching right now", 3, 6)

	quotes := ExtractQuotes([]*models.TranscriptSegment{first, second}, DefaultQuoteConfig())

	require.Len(t, quotes, 2)
	assert.Equal(t, first.Text, quotes[0].Text)
	assert.Equal(t, second.Text, quotes[1].Text)
}

func TestExtractQuotesCap(t *testing.T) {
	var segments []*models.TranscriptSegment
	for i := 0; i < 15; i++ {
		segments = append(segments, segment(
			fmt.Sprintf("remember why this is important for all of us number %d", i),
			float64(i), float64(i+1),
		))
	}

	quotes := ExtractQuotes(segments, DefaultQuoteConfig())
	assert.Len(t, quotes, 10)
}

func TestExtractQuotesEmptyInput(t *testing.T) {
	assert.Empty(t, ExtractQuotes(nil, DefaultQuoteConfig()))
}

func TestExtractQuotesPreservesTimestamps(t *testing.T) {
	seg := segment("remember why this is important for all of us here", 12.5, 18.25)

	quotes := ExtractQuotes([]*models.TranscriptSegment{seg}, DefaultQuoteConfig())

	require.Len(t, quotes, 1)
	assert.Equal(t, 12.5, quotes[0].StartTime)
	assert.Equal(t, 18.25, quotes[0].EndTime)
}
