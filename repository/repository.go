package repository

import (
	"context"

	"capsule/models"
)

// DeletionCounts reports how many derived rows a cascade delete removed.
type DeletionCounts struct {
	Transcripts int64 `json:"transcripts"`
	Segments    int64 `json:"segments"`
	Summaries   int64 `json:"summaries"`
	Quotes      int64 `json:"quotes"`
}

type VideoRepository interface {
	Save(ctx context.Context, video *models.Video) error
	Find(ctx context.Context, id string) (*models.Video, error)
	FindAll(ctx context.Context) ([]*models.Video, error)
	Search(ctx context.Context, query string) ([]*models.Video, error)

	// UpdateStatus performs a compare-and-swap on the status column and
	// reports whether the transition was applied. It is the sole guard
	// against two pipeline runs racing on the same job.
	UpdateStatus(ctx context.Context, id string, from []models.Status, to models.Status) (bool, error)

	SaveTranscript(ctx context.Context, t *models.Transcript) error
	SaveSegments(ctx context.Context, segments []*models.TranscriptSegment) error
	SaveSummaries(ctx context.Context, summaries []*models.Summary) error
	SaveQuotes(ctx context.Context, quotes []*models.Quote) error

	FindTranscript(ctx context.Context, videoID string) (*models.Transcript, error)
	FindSegments(ctx context.Context, transcriptID int64) ([]*models.TranscriptSegment, error)
	FindSummaries(ctx context.Context, videoID string) ([]*models.Summary, error)
	FindQuotes(ctx context.Context, videoID string) ([]*models.Quote, error)

	// DeleteDerived removes all artifacts produced by previous processing
	// attempts, leaving the video row in place.
	DeleteDerived(ctx context.Context, videoID string) (DeletionCounts, error)

	// DeleteVideoCascade removes derived rows child-first, then the video.
	DeleteVideoCascade(ctx context.Context, videoID string) (DeletionCounts, error)
}
