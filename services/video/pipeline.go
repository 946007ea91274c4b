package video

import (
	"context"
	"fmt"
	"os"
	"time"

	"capsule/analysis"
	"capsule/models"
)

// Pipeline stage names used in errors and logs.
const (
	StageExtract    = "extract"
	StageTranscribe = "transcribe"
	StagePersist    = "persist"
)

// PipelineError reports which stage of a job's pipeline failed.
type PipelineError struct {
	Stage string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline stage %s failed: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// runPipeline executes the full media-to-artifacts pipeline for one claimed
// job: extract audio, transcribe, persist transcript and segments, then run
// the best-effort enrichment stages. Extraction, transcription, and
// persistence faults fail the job; enrichment faults only drop their own
// artifact. The transient audio file is removed on every exit path.
func (s *service) runPipeline(ctx context.Context, video *models.Video) (*ProcessResult, error) {
	logger := s.logger.WithField("video_id", video.ID)

	audioPath, err := s.extractor.Extract(ctx, video.FilePath, video.ID)
	if err != nil {
		s.failJob(video.ID, err)
		return nil, &PipelineError{Stage: StageExtract, Err: err}
	}
	defer s.cleanupAudio(audioPath)

	transcription, err := s.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		s.failJob(video.ID, err)
		return nil, &PipelineError{Stage: StageTranscribe, Err: err}
	}

	transcript := &models.Transcript{
		VideoID:   video.ID,
		FullText:  transcription.Text,
		Language:  transcription.Language,
		CreatedAt: time.Now(),
	}
	if err := s.repo.SaveTranscript(ctx, transcript); err != nil {
		s.failJob(video.ID, err)
		return nil, &PipelineError{Stage: StagePersist, Err: err}
	}

	segments := make([]*models.TranscriptSegment, 0, len(transcription.Segments))
	for _, seg := range transcription.Segments {
		confidence := seg.AvgLogProb
		segments = append(segments, &models.TranscriptSegment{
			TranscriptID: transcript.ID,
			Text:         seg.Text,
			StartTime:    seg.Start,
			EndTime:      seg.End,
			Confidence:   &confidence,
		})
	}
	if err := s.repo.SaveSegments(ctx, segments); err != nil {
		s.failJob(video.ID, err)
		return nil, &PipelineError{Stage: StagePersist, Err: err}
	}

	result := &ProcessResult{
		Status:       models.StatusCompleted,
		TranscriptID: transcript.ID,
		SegmentCount: len(segments),
	}

	// Enrichment stages run only over non-empty text. Each is isolated:
	// a failure drops its artifact and nothing else.
	if transcription.Text != "" {
		summaries := s.summarizer.Summarize(ctx, transcription.Text)
		for _, summary := range summaries {
			summary.VideoID = video.ID
		}
		if err := s.repo.SaveSummaries(ctx, summaries); err != nil {
			logger.WithError(err).Warn("Failed to persist summaries")
		} else {
			result.SummaryCount = len(summaries)
		}

		quotes := analysis.ExtractQuotes(segments, s.config.Quotes)
		for _, quote := range quotes {
			quote.VideoID = video.ID
		}
		if err := s.repo.SaveQuotes(ctx, quotes); err != nil {
			logger.WithError(err).Warn("Failed to persist quotes")
		} else {
			result.QuoteCount = len(quotes)
		}

		video.VideoType = analysis.Classify(transcription.Text)
		result.Classification = video.VideoType
	}

	video.Status = models.StatusCompleted
	video.Error = ""
	video.UpdatedAt = time.Now()
	if err := s.repo.Save(ctx, video); err != nil {
		s.failJob(video.ID, err)
		return nil, &PipelineError{Stage: StagePersist, Err: err}
	}

	return result, nil
}

// failJob rolls the job to the terminal failed state. Uses a fresh context
// so the failure is durable even when the pipeline context is dead.
func (s *service) failJob(id string, cause error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	video, err := s.repo.Find(ctx, id)
	if err != nil {
		s.logger.WithError(err).WithField("video_id", id).
			Error("Failed to load video while recording failure")
		return
	}

	video.Status = models.StatusFailed
	video.Error = cause.Error()
	video.UpdatedAt = time.Now()

	if err := s.repo.Save(ctx, video); err != nil {
		s.logger.WithError(err).WithField("video_id", id).
			Error("Failed to record job failure")
	}
}

// cleanupAudio removes the transient audio artifact. Failures here are
// logged and never fail the job.
func (s *service) cleanupAudio(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.WithError(err).WithField("path", path).
			Warn("Failed to remove transient audio file")
	}
}
