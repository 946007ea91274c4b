package analysis

import (
	"strings"

	"capsule/models"
)

// Category keyword lists. A keyword counts once per category regardless of
// how often it appears in the text.
var classifierKeywords = []struct {
	label    models.VideoType
	keywords []string
}{
	// Order fixes tie-breaking: earlier categories win equal scores.
	{models.TypeTutorial, []string{"how to", "step", "tutorial", "guide", "learn", "teach", "show you"}},
	{models.TypeReview, []string{"review", "opinion", "rating", "recommend", "pros", "cons", "compared"}},
	{models.TypeEducational, []string{"explain", "understand", "concept", "theory", "definition", "science"}},
	{models.TypeEntertainment, []string{"funny", "comedy", "laugh", "entertainment", "story", "vlog"}},
}

// Classify assigns a coarse content-type label from keyword frequency.
// Returns "general" when no category keyword appears at all.
func Classify(text string) models.VideoType {
	textLower := strings.ToLower(text)

	best := models.TypeGeneral
	bestScore := 0

	for _, category := range classifierKeywords {
		score := 0
		for _, keyword := range category.keywords {
			if strings.Contains(textLower, keyword) {
				score++
			}
		}
		if score > bestScore {
			best = category.label
			bestScore = score
		}
	}

	return best
}
