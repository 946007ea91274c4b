package video

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"time"

	"capsule/analysis"
	"capsule/errors"
	"capsule/models"
	"capsule/repository"
	"capsule/validation"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type service struct {
	repo        Repository
	store       MediaStore
	extractor   AudioExtractor
	transcriber Transcriber
	summarizer  analysis.Summarizer
	prober      Prober
	validator   *validation.Validator
	config      Config
	logger      *logrus.Logger
}

func NewService(
	repo Repository,
	store MediaStore,
	extractor AudioExtractor,
	transcriber Transcriber,
	summarizer analysis.Summarizer,
	prober Prober,
	validator *validation.Validator,
	config Config,
	logger *logrus.Logger,
) Service {
	return &service{
		repo:        repo,
		store:       store,
		extractor:   extractor,
		transcriber: transcriber,
		summarizer:  summarizer,
		prober:      prober,
		validator:   validator,
		config:      config,
		logger:      logger,
	}
}

func (s *service) Create(ctx context.Context, file *multipart.FileHeader) (*models.Video, error) {
	const op = "VideoService.Create"
	logger := s.logger.WithField("filename", file.Filename)

	if err := s.validator.ValidateUpload(file); err != nil {
		logger.WithError(err).Info("Upload validation failed")
		return nil, err
	}

	id := uuid.New().String()
	storedName := id + filepath.Ext(file.Filename)

	path, size, err := s.store.SaveUpload(file, storedName)
	if err != nil {
		return nil, err
	}

	video := &models.Video{
		ID:        id,
		Title:     file.Filename,
		Filename:  storedName,
		FilePath:  path,
		FileSize:  size,
		Status:    models.StatusUploaded,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	// Duration is unknown until probed; a probe failure is not fatal.
	if s.prober != nil {
		if duration, err := s.prober.Duration(ctx, path); err == nil && duration > 0 {
			video.Duration = &duration
		} else if err != nil {
			logger.WithError(err).Warn("Failed to probe video duration")
		}
	}

	if err := s.repo.Save(ctx, video); err != nil {
		s.store.Delete(path)
		return nil, errors.Internal(op, err, "Failed to save video")
	}

	logger.WithFields(logrus.Fields{
		"video_id": video.ID,
		"size":     size,
	}).Info("Video uploaded")

	return video, nil
}

func (s *service) Get(ctx context.Context, id string) (*models.Video, error) {
	const op = "VideoService.Get"

	if id == "" {
		return nil, errors.InvalidInput(op, nil, "ID is required")
	}
	return s.repo.Find(ctx, id)
}

func (s *service) List(ctx context.Context) ([]*models.Video, error) {
	return s.repo.FindAll(ctx)
}

func (s *service) Search(ctx context.Context, query string) ([]*models.Video, error) {
	const op = "VideoService.Search"

	if query == "" {
		return nil, errors.InvalidInput(op, nil, "Search query is required")
	}
	return s.repo.Search(ctx, query)
}

// Process claims the job via a compare-and-swap on status, then runs the
// pipeline on a background goroutine so the request path returns as soon
// as the claim is recorded.
func (s *service) Process(ctx context.Context, id string) (*models.Video, error) {
	const op = "VideoService.Process"

	video, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	claimed, err := s.repo.UpdateStatus(ctx, id,
		[]models.Status{models.StatusUploaded, models.StatusFailed},
		models.StatusProcessing,
	)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, errors.Conflict(op, nil,
			fmt.Sprintf("Video cannot be processed from status %q", video.Status))
	}

	// Artifacts from a previous failed attempt would violate the
	// one-transcript-per-job shape, so drop them before re-running.
	if _, err := s.repo.DeleteDerived(ctx, id); err != nil {
		s.failJob(id, err)
		return nil, err
	}

	video.Status = models.StatusProcessing
	video.Error = ""

	go s.processInBackground(video)

	return video, nil
}

func (s *service) processInBackground(video *models.Video) {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.ProcessTimeout)
	defer cancel()

	logger := s.logger.WithField("video_id", video.ID)
	start := time.Now()

	result, err := s.runPipeline(ctx, video)
	if err != nil {
		logger.WithError(err).Error("Pipeline failed")
		return
	}

	logger.WithFields(logrus.Fields{
		"transcript_id": result.TranscriptID,
		"segments":      result.SegmentCount,
		"summaries":     result.SummaryCount,
		"quotes":        result.QuoteCount,
		"type":          result.Classification,
		"duration_ms":   time.Since(start).Milliseconds(),
	}).Info("Pipeline completed")
}

func (s *service) Reset(ctx context.Context, id string) (*models.Video, error) {
	const op = "VideoService.Reset"

	video, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if video.IsProcessing() {
		return nil, errors.Conflict(op, nil, "Video is currently processing")
	}

	if _, err := s.repo.DeleteDerived(ctx, id); err != nil {
		return nil, err
	}

	video.Status = models.StatusUploaded
	video.VideoType = ""
	video.Error = ""
	video.UpdatedAt = time.Now()

	if err := s.repo.Save(ctx, video); err != nil {
		return nil, errors.Internal(op, err, "Failed to reset video")
	}

	s.logger.WithField("video_id", id).Info("Video reset")
	return video, nil
}

func (s *service) Delete(ctx context.Context, id string) (repository.DeletionCounts, error) {
	const op = "VideoService.Delete"

	video, err := s.repo.Find(ctx, id)
	if err != nil {
		return repository.DeletionCounts{}, err
	}

	if video.IsProcessing() {
		return repository.DeletionCounts{}, errors.Conflict(op, nil, "Video is currently processing")
	}

	counts, err := s.repo.DeleteVideoCascade(ctx, id)
	if err != nil {
		return counts, err
	}

	if video.FilePath != "" {
		if err := s.store.Delete(video.FilePath); err != nil {
			s.logger.WithError(err).WithField("path", video.FilePath).
				Warn("Failed to remove source file")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"video_id":    id,
		"transcripts": counts.Transcripts,
		"segments":    counts.Segments,
		"summaries":   counts.Summaries,
		"quotes":      counts.Quotes,
	}).Info("Video deleted")

	return counts, nil
}

func (s *service) DeleteFile(ctx context.Context, id string) (*models.Video, error) {
	const op = "VideoService.DeleteFile"

	video, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if video.IsProcessing() {
		return nil, errors.Conflict(op, nil, "Video is currently processing")
	}

	if video.FilePath != "" {
		if err := s.store.Delete(video.FilePath); err != nil {
			return nil, errors.Internal(op, err, "Failed to remove source file")
		}
	}

	video.Status = models.StatusFileDeleted
	video.UpdatedAt = time.Now()

	if err := s.repo.Save(ctx, video); err != nil {
		return nil, errors.Internal(op, err, "Failed to update video")
	}

	s.logger.WithField("video_id", id).Info("Source file purged")
	return video, nil
}

func (s *service) GetTranscript(ctx context.Context, id string) (*models.Transcript, []*models.TranscriptSegment, error) {
	transcript, err := s.repo.FindTranscript(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	segments, err := s.repo.FindSegments(ctx, transcript.ID)
	if err != nil {
		return nil, nil, err
	}
	return transcript, segments, nil
}

func (s *service) GetSummaries(ctx context.Context, id string) ([]*models.Summary, error) {
	return s.repo.FindSummaries(ctx, id)
}

func (s *service) GetQuotes(ctx context.Context, id string) ([]*models.Quote, error) {
	return s.repo.FindQuotes(ctx, id)
}
