package models

import (
	"time"
)

type Status string

const (
	StatusUploaded    Status = "uploaded"
	StatusQueued      Status = "queued"
	StatusDownloading Status = "downloading"
	StatusProcessing  Status = "processing"
	StatusCompleted   Status = "completed"
	StatusFailed      Status = "failed"
	StatusFileDeleted Status = "file_deleted"
)

// VideoType is the coarse content classification assigned after processing.
type VideoType string

const (
	TypeTutorial      VideoType = "tutorial"
	TypeReview        VideoType = "review"
	TypeEducational   VideoType = "educational"
	TypeEntertainment VideoType = "entertainment"
	TypeGeneral       VideoType = "general"
)

type Video struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Filename   string    `json:"filename"`
	FilePath   string    `json:"file_path"`
	FileSize   int64     `json:"file_size"`
	Duration   *float64  `json:"duration,omitempty"`
	YouTubeURL string    `json:"youtube_url,omitempty"`
	VideoType  VideoType `json:"video_type,omitempty"`
	Status     Status    `json:"status"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Status check methods
func (v *Video) IsProcessing() bool { return v.Status == StatusProcessing }
func (v *Video) IsCompleted() bool  { return v.Status == StatusCompleted }
func (v *Video) IsFailed() bool     { return v.Status == StatusFailed }

// CanProcess reports whether the pipeline may be started for this video.
// Only freshly ingested and previously failed jobs are eligible.
func (v *Video) CanProcess() bool {
	return v.Status == StatusUploaded || v.Status == StatusFailed
}

// VideoResponse represents the API response
type VideoResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Status    Status    `json:"status"`
	FileSize  int64     `json:"file_size"`
	Duration  *float64  `json:"duration,omitempty"`
	VideoType VideoType `json:"video_type,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewVideoResponse creates a response from a video model
func NewVideoResponse(v *Video) *VideoResponse {
	return &VideoResponse{
		ID:        v.ID,
		Title:     v.Title,
		Status:    v.Status,
		FileSize:  v.FileSize,
		Duration:  v.Duration,
		VideoType: v.VideoType,
		Error:     v.Error,
		CreatedAt: v.CreatedAt,
	}
}
