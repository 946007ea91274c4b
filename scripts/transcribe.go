package scripts

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// whisperOutput matches the JSON file the whisper CLI writes next to its
// transcript exports.
type whisperOutput struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Segments []struct {
		Text       string  `json:"text"`
		Start      float64 `json:"start"`
		End        float64 `json:"end"`
		AvgLogProb float64 `json:"avg_logprob"`
	} `json:"segments"`
}

// Transcribe runs whisper over an audio artifact and returns the full text,
// the detected language (defaulting to "en"), and ordered segments.
// Word-level timestamps are requested but only segment boundaries are
// consumed downstream.
func (r *ScriptRunner) Transcribe(ctx context.Context, audioPath string) (*TranscriptionResult, error) {
	const op = "ScriptRunner.Transcribe"

	info, err := os.Stat(audioPath)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: audio file not found", op)
	}
	if info.Size() == 0 {
		return nil, ErrEmptyAudio
	}

	outDir, err := os.MkdirTemp(r.config.TempDir, "whisper-*")
	if err != nil {
		return nil, errors.Wrapf(err, "%s: create output directory", op)
	}
	defer os.RemoveAll(outDir)

	args := []string{
		audioPath,
		"--model", r.config.GetDefaultModel(),
		"--output_format", "json",
		"--output_dir", outDir,
		"--word_timestamps", "True",
		"--verbose", "False",
	}

	if _, err := r.run(ctx, r.config.WhisperPath, args...); err != nil {
		return nil, errors.Wrapf(err, "%s: transcription failed", op)
	}

	base := filepath.Base(audioPath)
	jsonPath := filepath.Join(outDir, strings.TrimSuffix(base, filepath.Ext(base))+".json")

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: whisper completed but output is missing", op)
	}

	var out whisperOutput
	if err := unmarshalResult(data, &out); err != nil {
		return nil, errors.Wrapf(err, "%s: parse whisper output", op)
	}

	return parseWhisperOutput(&out), nil
}

func parseWhisperOutput(out *whisperOutput) *TranscriptionResult {
	result := &TranscriptionResult{
		Text:     strings.TrimSpace(out.Text),
		Language: out.Language,
	}
	if result.Language == "" {
		result.Language = "en"
	}

	for _, seg := range out.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		result.Segments = append(result.Segments, Segment{
			Text:       text,
			Start:      seg.Start,
			End:        seg.End,
			AvgLogProb: seg.AvgLogProb,
		})
	}

	return result
}
