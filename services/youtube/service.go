package youtube

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"capsule/models"
	"capsule/repository"
	"capsule/scripts"
	"capsule/validation"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Downloader fetches a remote video onto local disk.
type Downloader interface {
	Download(ctx context.Context, url string, maxDuration time.Duration, maxSize int64) (*scripts.DownloadResult, error)
}

// FileStore places downloaded media where the pipeline expects it.
type FileStore interface {
	UploadPath(filename string) string
	Delete(path string) error
}

type Service interface {
	// Ingest records a downloading job and fetches the video in the
	// background; the job becomes ready for processing once the
	// download lands.
	Ingest(ctx context.Context, url string) (*models.Video, error)
}

type Config struct {
	DownloadTimeout time.Duration
	MaxDuration     time.Duration
	MaxSize         int64
}

type service struct {
	repo       repository.VideoRepository
	store      FileStore
	downloader Downloader
	validator  *validation.Validator
	config     Config
	logger     *logrus.Logger
}

func NewService(
	repo repository.VideoRepository,
	store FileStore,
	downloader Downloader,
	validator *validation.Validator,
	config Config,
	logger *logrus.Logger,
) Service {
	return &service{
		repo:       repo,
		store:      store,
		downloader: downloader,
		validator:  validator,
		config:     config,
		logger:     logger,
	}
}

func (s *service) Ingest(ctx context.Context, url string) (*models.Video, error) {
	if err := s.validator.ValidateYouTubeURL(url); err != nil {
		return nil, err
	}

	video := &models.Video{
		ID:         uuid.New().String(),
		Title:      url,
		YouTubeURL: url,
		Status:     models.StatusDownloading,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := s.repo.Save(ctx, video); err != nil {
		return nil, err
	}

	go s.downloadInBackground(video)

	return video, nil
}

func (s *service) downloadInBackground(video *models.Video) {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.DownloadTimeout)
	defer cancel()

	logger := s.logger.WithFields(logrus.Fields{
		"video_id": video.ID,
		"url":      video.YouTubeURL,
	})
	logger.Info("Starting download")

	result, err := s.downloader.Download(ctx, video.YouTubeURL, s.config.MaxDuration, s.config.MaxSize)
	if err != nil {
		logger.WithError(err).Error("Download failed")
		s.markFailed(video, err)
		return
	}

	// Move the download into the upload area, keyed by job id.
	storedName := video.ID + filepath.Ext(result.FileName)
	destPath := s.store.UploadPath(storedName)
	if err := os.Rename(result.FilePath, destPath); err != nil {
		logger.WithError(err).Error("Failed to move download into upload area")
		s.store.Delete(result.FilePath)
		s.markFailed(video, err)
		return
	}

	video.Title = result.Title
	video.Filename = storedName
	video.FilePath = destPath
	video.FileSize = result.FileSize
	if result.Duration > 0 {
		duration := result.Duration
		video.Duration = &duration
	}
	video.Status = models.StatusUploaded
	video.Error = ""
	video.UpdatedAt = time.Now()

	if err := s.repo.Save(ctx, video); err != nil {
		logger.WithError(err).Error("Failed to save downloaded video")
		return
	}

	logger.WithFields(logrus.Fields{
		"title": result.Title,
		"size":  result.FileSize,
	}).Info("Download completed")
}

func (s *service) markFailed(video *models.Video, cause error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	video.Status = models.StatusFailed
	video.Error = cause.Error()
	video.UpdatedAt = time.Now()

	if err := s.repo.Save(ctx, video); err != nil {
		s.logger.WithError(err).WithField("video_id", video.ID).
			Error("Failed to record download failure")
	}
}
