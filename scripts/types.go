package scripts

import (
	"time"
)

// Config holds the configuration for the ScriptRunner
type Config struct {
	WhisperPath string        // Path to the whisper CLI
	YTDLPPath   string        // Path to yt-dlp
	PythonPath  string        // Path to Python executable
	ScriptsPath string        // Path to helper scripts directory
	Timeout     time.Duration // External tool execution timeout
	TempDir     string        // Temporary directory for downloads and tool output
	Model       string        // Default Whisper model to use
}

// GetDefaultModel returns the default model from the configuration or a fallback value.
func (cfg *Config) GetDefaultModel() string {
	if cfg.Model != "" {
		return cfg.Model
	}
	return "base"
}

// Segment is one time-bounded slice of transcribed speech.
type Segment struct {
	Text       string  `json:"text"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	AvgLogProb float64 `json:"avg_logprob"` // opaque quality signal, not calibrated likelihood
}

// TranscriptionResult is the parsed whisper output for one audio artifact.
type TranscriptionResult struct {
	Text     string    `json:"text"`
	Language string    `json:"language"`
	Segments []Segment `json:"segments"`
}

// DownloadResult describes a completed yt-dlp download.
type DownloadResult struct {
	FilePath string
	FileName string
	FileSize int64
	Title    string
	Duration float64
}

// SummaryResult is the JSON emitted by the abstractive summarizer script.
type SummaryResult struct {
	Summary string `json:"summary"`
	Error   string `json:"error,omitempty"`
}

// videoInfo is the yt-dlp --dump-json metadata subset we consume.
type videoInfo struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Duration float64 `json:"duration"`
}
