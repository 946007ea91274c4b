package media

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

type StreamInfo struct {
	Duration   float64
	Width      int
	Height     int
	CodecName  string
	AudioCodec string
	HasAudio   bool
}

type ffprobeOutput struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		CodecName string `json:"codec_name"`
		Width     int    `json:"width,omitempty"`
		Height    int    `json:"height,omitempty"`
		Duration  string `json:"duration,omitempty"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Duration reports the container duration in seconds.
func (e *Extractor) Duration(ctx context.Context, path string) (float64, error) {
	info, err := e.Probe(ctx, path)
	if err != nil {
		return 0, err
	}
	return info.Duration, nil
}

// Probe inspects a media container with ffprobe and reports its streams.
func (e *Extractor) Probe(ctx context.Context, path string) (*StreamInfo, error) {
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	}

	output, err := e.runner.Run(ctx, e.ffprobePath, args...)
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	var probeData ffprobeOutput
	if err := json.Unmarshal(output, &probeData); err != nil {
		return nil, fmt.Errorf("parse ffprobe output: %w", err)
	}

	info := &StreamInfo{}

	if probeData.Format.Duration != "" {
		if duration, err := strconv.ParseFloat(probeData.Format.Duration, 64); err == nil {
			info.Duration = duration
		}
	}

	for _, stream := range probeData.Streams {
		if stream.CodecType == "video" && info.Width == 0 {
			info.Width = stream.Width
			info.Height = stream.Height
			info.CodecName = stream.CodecName

			// Use stream duration if format duration is missing
			if info.Duration == 0 && stream.Duration != "" {
				if duration, err := strconv.ParseFloat(stream.Duration, 64); err == nil {
					info.Duration = duration
				}
			}
		} else if stream.CodecType == "audio" && !info.HasAudio {
			info.HasAudio = true
			info.AudioCodec = stream.CodecName
		}
	}

	return info, nil
}
