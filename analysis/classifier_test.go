package analysis

import (
	"testing"

	"capsule/models"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want models.VideoType
	}{
		{
			name: "tutorial",
			text: "In this tutorial I will show you how to set up the project step by step",
			want: models.TypeTutorial,
		},
		{
			name: "review",
			text: "My honest review: the pros outweigh the cons and I recommend it",
			want: models.TypeReview,
		},
		{
			name: "educational",
			text: "Let me explain the concept so you can understand the theory behind it",
			want: models.TypeEducational,
		},
		{
			name: "entertainment",
			text: "This funny vlog will make you laugh, pure comedy",
			want: models.TypeEntertainment,
		},
		{
			name: "no keywords",
			text: "the quick brown fox jumps over the lazy dog",
			want: models.TypeGeneral,
		},
		{
			name: "empty text",
			text: "",
			want: models.TypeGeneral,
		},
		{
			name: "case insensitive",
			text: "A TUTORIAL on GUIDE writing, LEARN it now",
			want: models.TypeTutorial,
		},
		{
			name: "repeated keyword counts once",
			text: "tutorial tutorial tutorial versus review plus rating",
			want: models.TypeReview,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text))
		})
	}
}

func TestClassifyTieBreaking(t *testing.T) {
	// One keyword from each category: the earliest category wins.
	text := "a tutorial and a review to explain something funny"
	assert.Equal(t, models.TypeTutorial, Classify(text))

	// Review vs educational tie resolves to review.
	text = "a review to explain"
	assert.Equal(t, models.TypeReview, Classify(text))
}

func TestClassifyDeterministic(t *testing.T) {
	text := "a guide to understand the theory, with a review and a funny story"
	first := Classify(text)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(text))
	}
}
