package analysis

import (
	"context"
	"io"
	"strings"
	"testing"

	"capsule/models"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func sentences(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "this sentence has exactly six words"
	}
	return strings.Join(parts, ". ") + "."
}

func TestExtractiveSummarizerShortInput(t *testing.T) {
	s := NewExtractiveSummarizer(DefaultMinChars)
	assert.Nil(t, s.Summarize(context.Background(), "too short"))
	assert.Nil(t, s.Summarize(context.Background(), ""))
}

func TestExtractiveSummarizerTiers(t *testing.T) {
	s := NewExtractiveSummarizer(DefaultMinChars)

	summaries := s.Summarize(context.Background(), sentences(12))
	require.Len(t, summaries, 3)

	assert.Equal(t, models.TierShort, summaries[0].Tier)
	assert.Equal(t, models.TierMedium, summaries[1].Tier)
	assert.Equal(t, models.TierLong, summaries[2].Tier)

	// 2, 5 and 10 leading sentences at six words each.
	assert.Equal(t, 12, summaries[0].WordCount)
	assert.Equal(t, 30, summaries[1].WordCount)
	assert.Equal(t, 60, summaries[2].WordCount)

	for _, sum := range summaries {
		assert.True(t, strings.HasSuffix(sum.Content, "."))
	}
}

func TestExtractiveSummarizerSkipsUnreachableTiers(t *testing.T) {
	s := NewExtractiveSummarizer(DefaultMinChars)

	// Four sentences: only the short tier has enough material.
	summaries := s.Summarize(context.Background(), sentences(4))
	require.Len(t, summaries, 1)
	assert.Equal(t, models.TierShort, summaries[0].Tier)
}

func TestAbstractiveSummarizerShortInput(t *testing.T) {
	model := func(context.Context, string, int, int) (string, error) {
		t.Fatal("model must not be called for short input")
		return "", nil
	}
	s := NewAbstractiveSummarizer(model, DefaultMinChars, discardLogger())
	assert.Nil(t, s.Summarize(context.Background(), "too short"))
}

func TestAbstractiveSummarizerAllTiers(t *testing.T) {
	var bands [][2]int
	model := func(_ context.Context, _ string, minWords, maxWords int) (string, error) {
		bands = append(bands, [2]int{minWords, maxWords})
		return "generated summary text", nil
	}

	s := NewAbstractiveSummarizer(model, DefaultMinChars, discardLogger())
	summaries := s.Summarize(context.Background(), sentences(12))

	require.Len(t, summaries, 3)
	assert.Equal(t, [][2]int{{20, 50}, {50, 150}, {100, 300}}, bands)
	for _, sum := range summaries {
		assert.Equal(t, "generated summary text", sum.Content)
		assert.Equal(t, 3, sum.WordCount)
	}
}

func TestAbstractiveSummarizerTierFailureIsolated(t *testing.T) {
	calls := 0
	model := func(_ context.Context, _ string, minWords, _ int) (string, error) {
		calls++
		if minWords == 50 {
			return "", errors.New("model overloaded")
		}
		return "generated summary text", nil
	}

	s := NewAbstractiveSummarizer(model, DefaultMinChars, discardLogger())
	summaries := s.Summarize(context.Background(), sentences(12))

	assert.Equal(t, 3, calls)
	require.Len(t, summaries, 2)
	assert.Equal(t, models.TierShort, summaries[0].Tier)
	assert.Equal(t, models.TierLong, summaries[1].Tier)
}

func TestAbstractiveSummarizerTruncatesInput(t *testing.T) {
	var inputLen int
	model := func(_ context.Context, text string, _, _ int) (string, error) {
		inputLen = len(text)
		return "generated summary text", nil
	}

	s := NewAbstractiveSummarizer(model, DefaultMinChars, discardLogger())
	s.Summarize(context.Background(), strings.Repeat("a", 10000))

	// Two 1024-character chunks joined with a space.
	assert.Equal(t, 2049, inputLen)
}

func TestChunkText(t *testing.T) {
	chunks := chunkText(strings.Repeat("x", 2500), 1024)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 1024)
	assert.Len(t, chunks[1], 1024)
	assert.Len(t, chunks[2], 452)
}
