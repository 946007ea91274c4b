package analysis

import (
	"context"
	"strings"

	"capsule/models"

	"github.com/sirupsen/logrus"
)

const (
	// Inputs below this length produce no summaries at all.
	DefaultMinChars = 100

	// Abstractive model input is chunked at this many characters; only
	// the first one or two chunks are summarized. Full-document
	// summarization is not attempted.
	maxChunkChars = 1024
)

type tierSpec struct {
	tier      models.SummaryTier
	minWords  int
	maxWords  int
	sentences int
}

var tierSpecs = []tierSpec{
	{models.TierShort, 20, 50, 2},
	{models.TierMedium, 50, 150, 5},
	{models.TierLong, 100, 300, 10},
}

// Summarizer produces up to three tiers of summaries from transcript text.
// The variant is selected once at startup based on available capability.
type Summarizer interface {
	Summarize(ctx context.Context, fullText string) []*models.Summary
}

// ModelFunc generates one abstractive summary within a word-length band.
type ModelFunc func(ctx context.Context, text string, minWords, maxWords int) (string, error)

// AbstractiveSummarizer drives a generative model, one call per tier.
// A failed tier is dropped; the remaining tiers still run.
type AbstractiveSummarizer struct {
	model    ModelFunc
	minChars int
	logger   *logrus.Logger
}

func NewAbstractiveSummarizer(model ModelFunc, minChars int, logger *logrus.Logger) *AbstractiveSummarizer {
	return &AbstractiveSummarizer{model: model, minChars: minChars, logger: logger}
}

func (s *AbstractiveSummarizer) Summarize(ctx context.Context, fullText string) []*models.Summary {
	if len(fullText) < s.minChars {
		return nil
	}

	chunks := chunkText(fullText, maxChunkChars)
	input := chunks[0]
	if len(chunks) > 1 {
		input = chunks[0] + " " + chunks[1]
	}

	var summaries []*models.Summary
	for _, spec := range tierSpecs {
		content, err := s.model(ctx, input, spec.minWords, spec.maxWords)
		if err != nil {
			s.logger.WithError(err).WithField("tier", spec.tier).
				Warn("Summary tier generation failed, skipping")
			continue
		}

		summaries = append(summaries, &models.Summary{
			Tier:      spec.tier,
			Content:   content,
			WordCount: len(strings.Fields(content)),
		})
	}
	return summaries
}

// ExtractiveSummarizer is the fallback when no generative model is loaded:
// each tier is the leading sentences of the transcript.
type ExtractiveSummarizer struct {
	minChars int
}

func NewExtractiveSummarizer(minChars int) *ExtractiveSummarizer {
	return &ExtractiveSummarizer{minChars: minChars}
}

func (s *ExtractiveSummarizer) Summarize(_ context.Context, fullText string) []*models.Summary {
	if len(fullText) < s.minChars {
		return nil
	}

	sentences := strings.Split(fullText, ". ")

	var summaries []*models.Summary
	for _, spec := range tierSpecs {
		if len(sentences) < spec.sentences {
			continue
		}

		content := strings.Join(sentences[:spec.sentences], ". ")
		if !strings.HasSuffix(content, ".") {
			content += "."
		}

		summaries = append(summaries, &models.Summary{
			Tier:      spec.tier,
			Content:   content,
			WordCount: len(strings.Fields(content)),
		})
	}
	return summaries
}

func chunkText(text string, size int) []string {
	var chunks []string
	for start := 0; start < len(text); start += size {
		end := start + size
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, text[start:end])
	}
	return chunks
}
