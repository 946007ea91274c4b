package validation

import (
	"fmt"
	"mime/multipart"
	"net/url"
	"path/filepath"
	"strings"

	"capsule/config"
	"capsule/errors"
)

var allowedExtensions = map[string]bool{
	".mp4": true, ".mov": true, ".avi": true, ".mkv": true, ".webm": true,
}

var youtubeDomains = map[string]bool{
	"youtube.com":     true,
	"www.youtube.com": true,
	"m.youtube.com":   true,
	"youtu.be":        true,
	"www.youtu.be":    true,
}

type Validator struct {
	cfg *config.Config
}

func NewValidator(cfg *config.Config) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateUpload checks the file extension and declared size of an upload.
func (v *Validator) ValidateUpload(file *multipart.FileHeader) error {
	const op = "Validator.ValidateUpload"

	if file == nil || file.Filename == "" {
		return errors.InvalidInput(op, nil, "File is required")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return errors.InvalidInput(op, nil,
			fmt.Sprintf("Invalid file format %q; allowed: .mp4 .mov .avi .mkv .webm", ext))
	}

	if file.Size > v.cfg.Media.MaxUploadSize {
		return errors.InvalidInput(op, nil,
			fmt.Sprintf("File too large. Max size: %dMB", v.cfg.Media.MaxUploadSize/(1024*1024)))
	}

	return nil
}

// ValidateYouTubeURL checks that the URL points at a YouTube host.
func (v *Validator) ValidateYouTubeURL(rawURL string) error {
	const op = "Validator.ValidateYouTubeURL"

	if rawURL == "" {
		return errors.InvalidInput(op, nil, "URL is required")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.InvalidInput(op, err, "Invalid URL")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.InvalidInput(op, nil, "URL must use http or https")
	}
	if !youtubeDomains[parsed.Hostname()] {
		return errors.InvalidInput(op, nil, "URL must be a YouTube video")
	}

	return nil
}
