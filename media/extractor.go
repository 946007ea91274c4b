package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	stderrors "errors"

	"github.com/pkg/errors"
)

var (
	// ErrSourceNotFound means the video file is missing from disk.
	ErrSourceNotFound = stderrors.New("source video file not found")

	// ErrNoAudioTrack means the container holds no decodable audio
	// stream. Fatal to the job; retrying cannot help.
	ErrNoAudioTrack = stderrors.New("video has no audio track")
)

// Extractor pulls the audio track out of a video container into a
// standalone 16kHz mono WAV artifact under its private work directory.
type Extractor struct {
	ffmpegPath  string
	ffprobePath string
	workDir     string
	runner      Runner
}

type ExtractorConfig struct {
	FFmpegPath  string
	FFprobePath string
	WorkDir     string
}

func NewExtractor(cfg ExtractorConfig, runner Runner) (*Extractor, error) {
	if err := os.MkdirAll(cfg.WorkDir, 0755); err != nil {
		return nil, fmt.Errorf("create work directory: %w", err)
	}
	return &Extractor{
		ffmpegPath:  cfg.FFmpegPath,
		ffprobePath: cfg.FFprobePath,
		workDir:     cfg.WorkDir,
		runner:      runner,
	}, nil
}

// Extract writes exactly one audio file keyed by job id and returns its
// path. Any stale artifact at the target path is removed first. The caller
// owns cleanup of the returned file.
func (e *Extractor) Extract(ctx context.Context, videoPath, jobID string) (string, error) {
	info, err := os.Stat(videoPath)
	if err != nil {
		return "", errors.Wrapf(ErrSourceNotFound, "%s", videoPath)
	}
	if info.Size() == 0 {
		return "", errors.Wrapf(ErrSourceNotFound, "%s is empty", videoPath)
	}

	streams, err := e.Probe(ctx, videoPath)
	if err != nil {
		return "", errors.Wrap(err, "probe video")
	}
	if !streams.HasAudio {
		return "", ErrNoAudioTrack
	}

	audioPath := filepath.Join(e.workDir, jobID+".wav")
	if err := os.Remove(audioPath); err != nil && !os.IsNotExist(err) {
		return "", errors.Wrap(err, "remove stale audio artifact")
	}

	args := []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-i", videoPath,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		audioPath,
	}

	if output, err := e.runner.Run(ctx, e.ffmpegPath, args...); err != nil {
		return "", errors.Wrapf(err, "audio extraction failed: %s", string(output))
	}

	if _, err := os.Stat(audioPath); err != nil {
		return "", errors.Wrap(err, "ffmpeg completed but audio file is missing")
	}

	return audioPath, nil
}
