package scripts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

const downloadFormat = "best[height<=720][ext=mp4]/best[height<=720]/best[ext=mp4]/best"

var videoExtensions = map[string]bool{
	".mp4": true, ".webm": true, ".mkv": true, ".avi": true, ".flv": true,
}

// Info fetches video metadata without downloading.
func (r *ScriptRunner) Info(ctx context.Context, url string) (title string, duration float64, err error) {
	const op = "ScriptRunner.Info"

	output, err := r.run(ctx, r.config.YTDLPPath,
		"--dump-json",
		"--no-warnings",
		"--skip-download",
		url,
	)
	if err != nil {
		return "", 0, errors.Wrapf(err, "%s: metadata fetch failed", op)
	}

	var info videoInfo
	if err := unmarshalResult(output, &info); err != nil {
		return "", 0, errors.Wrapf(err, "%s: parse metadata", op)
	}

	return info.Title, info.Duration, nil
}

// Download fetches a video with yt-dlp into the temp directory, keyed by
// the source video id, and enforces the duration and size caps.
func (r *ScriptRunner) Download(
	ctx context.Context,
	url string,
	maxDuration time.Duration,
	maxSize int64,
) (*DownloadResult, error) {
	const op = "ScriptRunner.Download"

	output, err := r.run(ctx, r.config.YTDLPPath,
		"--dump-json",
		"--no-warnings",
		"--skip-download",
		url,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: metadata fetch failed", op)
	}

	var info videoInfo
	if err := unmarshalResult(output, &info); err != nil {
		return nil, errors.Wrapf(err, "%s: parse metadata", op)
	}

	if maxDuration > 0 && info.Duration > maxDuration.Seconds() {
		return nil, fmt.Errorf("%s: video too long (%.0fs, maximum %.0fs)",
			op, info.Duration, maxDuration.Seconds())
	}

	// Drop partial files from earlier attempts
	r.cleanupDownloads(info.ID)

	outTemplate := filepath.Join(r.config.TempDir, "%(id)s.%(ext)s")
	if _, err := r.run(ctx, r.config.YTDLPPath,
		"-f", downloadFormat,
		"-o", outTemplate,
		"--no-warnings",
		"--retries", "3",
		"--fragment-retries", "3",
		url,
	); err != nil {
		r.cleanupDownloads(info.ID)
		return nil, errors.Wrapf(err, "%s: download failed", op)
	}

	path, err := r.findDownload(info.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", op)
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: stat downloaded file", op)
	}

	if stat.Size() < 1024 {
		os.Remove(path)
		return nil, fmt.Errorf("%s: downloaded file appears to be corrupted (too small)", op)
	}
	if maxSize > 0 && stat.Size() > maxSize {
		os.Remove(path)
		return nil, fmt.Errorf("%s: file too large (%d bytes, maximum %d)", op, stat.Size(), maxSize)
	}

	return &DownloadResult{
		FilePath: path,
		FileName: filepath.Base(path),
		FileSize: stat.Size(),
		Title:    info.Title,
		Duration: info.Duration,
	}, nil
}

func (r *ScriptRunner) findDownload(videoID string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(r.config.TempDir, videoID+".*"))
	if err != nil {
		return "", err
	}

	for _, path := range matches {
		if videoExtensions[filepath.Ext(path)] {
			return path, nil
		}
	}
	return "", fmt.Errorf("no video file found for download %s", videoID)
}

func (r *ScriptRunner) cleanupDownloads(videoID string) {
	if videoID == "" {
		return
	}
	matches, err := filepath.Glob(filepath.Join(r.config.TempDir, videoID+".*"))
	if err != nil {
		return
	}
	for _, path := range matches {
		if err := os.Remove(path); err != nil {
			r.logger.WithError(err).WithField("path", path).Warn("Failed to remove download artifact")
		}
	}
}
