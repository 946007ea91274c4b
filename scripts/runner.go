package scripts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	stderrors "errors"

	"github.com/sirupsen/logrus"
)

var (
	// ErrModelUnavailable means the speech-recognition tooling cannot be
	// resolved. Detected at startup so it never surfaces per job.
	ErrModelUnavailable = stderrors.New("transcription model unavailable")

	// ErrEmptyAudio means the audio artifact exists but holds no data.
	ErrEmptyAudio = stderrors.New("audio file is empty")
)

// ScriptRunner shells out to the external tools the pipeline depends on:
// whisper for transcription, yt-dlp for downloads, and an optional Python
// summarizer script.
type ScriptRunner struct {
	config Config
	logger *logrus.Logger

	summarizerAvailable bool
}

func NewScriptRunner(cfg Config, logger *logrus.Logger) (*ScriptRunner, error) {
	if err := os.MkdirAll(cfg.TempDir, 0755); err != nil {
		return nil, fmt.Errorf("create temp directory: %w", err)
	}

	r := &ScriptRunner{config: cfg, logger: logger}
	if err := r.checkTools(); err != nil {
		return nil, err
	}
	return r, nil
}

// checkTools resolves required binaries once at process start. A missing
// transcriber fails fast; a missing summarizer only degrades summarization
// to the extractive fallback.
func (r *ScriptRunner) checkTools() error {
	if _, err := exec.LookPath(r.config.WhisperPath); err != nil {
		return fmt.Errorf("%w: %s not found in PATH", ErrModelUnavailable, r.config.WhisperPath)
	}

	r.summarizerAvailable = false
	if r.config.ScriptsPath != "" {
		script := filepath.Join(r.config.ScriptsPath, "summarize.py")
		if _, err := os.Stat(script); err == nil {
			if _, err := exec.LookPath(r.config.PythonPath); err == nil {
				r.summarizerAvailable = true
			}
		}
	}

	r.logger.WithFields(logrus.Fields{
		"whisper":    r.config.WhisperPath,
		"model":      r.config.GetDefaultModel(),
		"summarizer": r.summarizerAvailable,
	}).Info("External tools resolved")

	return nil
}

// SummarizerAvailable reports whether the abstractive summarizer can run.
func (r *ScriptRunner) SummarizerAvailable() bool {
	return r.summarizerAvailable
}

func (r *ScriptRunner) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		r.logger.WithFields(logrus.Fields{
			"command": name,
			"stderr":  stderr.String(),
		}).WithError(err).Error("Command execution failed")
		return nil, fmt.Errorf("%s: %v (stderr: %s)", name, err, stderr.String())
	}

	return stdout.Bytes(), nil
}

func unmarshalResult(data []byte, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return nil
}
