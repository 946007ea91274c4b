package video

import (
	"context"
	"mime/multipart"
	"time"

	"capsule/analysis"
	"capsule/models"
	"capsule/repository"
	"capsule/scripts"
)

type Repository = repository.VideoRepository

// AudioExtractor pulls a decodable audio track out of a video container.
type AudioExtractor interface {
	Extract(ctx context.Context, videoPath, jobID string) (string, error)
}

// Transcriber converts an audio artifact into time-aligned text segments.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*scripts.TranscriptionResult, error)
}

// MediaStore supplies and disposes of on-disk source files.
type MediaStore interface {
	SaveUpload(file *multipart.FileHeader, filename string) (string, int64, error)
	UploadPath(filename string) string
	Resolve(filename string) (string, bool)
	Delete(path string) error
}

// Prober reads container metadata at ingestion time.
type Prober interface {
	Duration(ctx context.Context, path string) (float64, error)
}

type Config struct {
	ProcessTimeout time.Duration
	Quotes         analysis.QuoteConfig
}

// ProcessResult summarizes one completed pipeline run.
type ProcessResult struct {
	Status         models.Status    `json:"status"`
	TranscriptID   int64            `json:"transcript_id"`
	SegmentCount   int              `json:"segment_count"`
	SummaryCount   int              `json:"summary_count"`
	QuoteCount     int              `json:"quote_count"`
	Classification models.VideoType `json:"classification,omitempty"`
}

type Service interface {
	Create(ctx context.Context, file *multipart.FileHeader) (*models.Video, error)
	Get(ctx context.Context, id string) (*models.Video, error)
	List(ctx context.Context) ([]*models.Video, error)
	Search(ctx context.Context, query string) ([]*models.Video, error)

	// Process starts the pipeline for a job in the background. Only
	// uploaded and failed jobs are accepted.
	Process(ctx context.Context, id string) (*models.Video, error)

	// Reset returns a job to the initial ready state, dropping artifacts
	// from previous attempts.
	Reset(ctx context.Context, id string) (*models.Video, error)

	// Delete removes a job and everything derived from it, reporting
	// exact per-table counts. Rejected while the job is processing.
	Delete(ctx context.Context, id string) (repository.DeletionCounts, error)

	// DeleteFile purges only the source media, leaving records intact.
	DeleteFile(ctx context.Context, id string) (*models.Video, error)

	GetTranscript(ctx context.Context, id string) (*models.Transcript, []*models.TranscriptSegment, error)
	GetSummaries(ctx context.Context, id string) ([]*models.Summary, error)
	GetQuotes(ctx context.Context, id string) ([]*models.Quote, error)
}
