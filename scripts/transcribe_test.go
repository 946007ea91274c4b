package scripts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWhisperOutput(t *testing.T) {
	out := &whisperOutput{
		Text:     "  Hello world. This is a test.  ",
		Language: "de",
		Segments: []struct {
			Text       string  `json:"text"`
			Start      float64 `json:"start"`
			End        float64 `json:"end"`
			AvgLogProb float64 `json:"avg_logprob"`
		}{
			{Text: " Hello world. ", Start: 0, End: 2.5, AvgLogProb: -0.3},
			{Text: "   ", Start: 2.5, End: 3.0, AvgLogProb: -0.1},
			{Text: "This is a test.", Start: 3.0, End: 5.0, AvgLogProb: -0.5},
		},
	}

	result := parseWhisperOutput(out)

	assert.Equal(t, "Hello world. This is a test.", result.Text)
	assert.Equal(t, "de", result.Language)

	// Whitespace-only segments are dropped, the rest keep their order.
	require.Len(t, result.Segments, 2)
	assert.Equal(t, "Hello world.", result.Segments[0].Text)
	assert.Equal(t, 0.0, result.Segments[0].Start)
	assert.Equal(t, 2.5, result.Segments[0].End)
	assert.Equal(t, -0.3, result.Segments[0].AvgLogProb)
	assert.Equal(t, "This is a test.", result.Segments[1].Text)
}

func TestParseWhisperOutputDefaultsLanguage(t *testing.T) {
	result := parseWhisperOutput(&whisperOutput{Text: "hi"})
	assert.Equal(t, "en", result.Language)
	assert.Empty(t, result.Segments)
}

func TestUnmarshalResult(t *testing.T) {
	var out whisperOutput
	err := unmarshalResult([]byte(`{"text":"hello","language":"en"}`), &out)
	require.NoError(t, err)
	assert.Equal(t, "hello", out.Text)

	err = unmarshalResult([]byte("not json"), &out)
	assert.Error(t, err)
}

func TestGetDefaultModel(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, "base", cfg.GetDefaultModel())

	cfg.Model = "small"
	assert.Equal(t, "small", cfg.GetDefaultModel())
}
