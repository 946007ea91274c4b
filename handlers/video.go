package handlers

import (
	"capsule/errors"
	"capsule/models"
	"capsule/services/video"
	"capsule/services/youtube"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type VideoHandler struct {
	service video.Service
	youtube youtube.Service
	logger  *logrus.Logger
}

func NewVideoHandler(service video.Service, youtubeSvc youtube.Service, logger *logrus.Logger) *VideoHandler {
	return &VideoHandler{
		service: service,
		youtube: youtubeSvc,
		logger:  logger,
	}
}

// Upload handles POST /api/videos/upload
func (h *VideoHandler) Upload(c *fiber.Ctx) error {
	const op = "VideoHandler.Upload"

	file, err := c.FormFile("file")
	if err != nil {
		return errors.InvalidInput(op, err, "A video file is required")
	}

	v, err := h.service.Create(c.Context(), file)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Video uploaded successfully",
		"video_id": v.ID,
		"filename": v.Filename,
		"size":     v.FileSize,
		"duration": v.Duration,
	})
}

// IngestYouTube handles POST /api/videos/youtube
func (h *VideoHandler) IngestYouTube(c *fiber.Ctx) error {
	const op = "VideoHandler.IngestYouTube"

	var req struct {
		URL string `json:"url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return errors.InvalidInput(op, err, "Invalid request body")
	}
	if req.URL == "" {
		return errors.InvalidInput(op, nil, "URL is required")
	}

	v, err := h.youtube.Ingest(c.Context(), req.URL)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"video_id": v.ID,
		"status":   v.Status,
	})
}

// List handles GET /api/videos
func (h *VideoHandler) List(c *fiber.Ctx) error {
	videos, err := h.service.List(c.Context())
	if err != nil {
		return err
	}

	responses := make([]*models.VideoResponse, 0, len(videos))
	for _, v := range videos {
		responses = append(responses, models.NewVideoResponse(v))
	}
	return c.JSON(fiber.Map{"videos": responses})
}

// Get handles GET /api/videos/:id
func (h *VideoHandler) Get(c *fiber.Ctx) error {
	v, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(models.NewVideoResponse(v))
}

// Process handles POST /api/videos/:id/process
func (h *VideoHandler) Process(c *fiber.Ctx) error {
	v, err := h.service.Process(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}

	h.logger.WithField("video_id", v.ID).Info("Processing started")
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message":  "Video processing started",
		"video_id": v.ID,
		"status":   v.Status,
	})
}

// Reset handles POST /api/videos/:id/reset
func (h *VideoHandler) Reset(c *fiber.Ctx) error {
	v, err := h.service.Reset(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(models.NewVideoResponse(v))
}

// Delete handles DELETE /api/videos/:id
func (h *VideoHandler) Delete(c *fiber.Ctx) error {
	counts, err := h.service.Delete(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Video deleted",
		"deleted": counts,
	})
}

// DeleteFile handles DELETE /api/videos/:id/file
func (h *VideoHandler) DeleteFile(c *fiber.Ctx) error {
	v, err := h.service.DeleteFile(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(models.NewVideoResponse(v))
}

// GetTranscript handles GET /api/videos/:id/transcript
func (h *VideoHandler) GetTranscript(c *fiber.Ctx) error {
	transcript, segments, err := h.service.GetTranscript(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"transcript": transcript,
		"segments":   segments,
	})
}

// GetSegments handles GET /api/videos/:id/segments
func (h *VideoHandler) GetSegments(c *fiber.Ctx) error {
	_, segments, err := h.service.GetTranscript(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"segments": segments})
}

// GetSummaries handles GET /api/videos/:id/summaries
func (h *VideoHandler) GetSummaries(c *fiber.Ctx) error {
	summaries, err := h.service.GetSummaries(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"summaries": summaries})
}

// GetQuotes handles GET /api/videos/:id/quotes
func (h *VideoHandler) GetQuotes(c *fiber.Ctx) error {
	quotes, err := h.service.GetQuotes(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"quotes": quotes})
}

// Search handles GET /api/search
func (h *VideoHandler) Search(c *fiber.Ctx) error {
	const op = "VideoHandler.Search"

	query := c.Query("q")
	if query == "" {
		return errors.InvalidInput(op, nil, "Query parameter q is required")
	}

	videos, err := h.service.Search(c.Context(), query)
	if err != nil {
		return err
	}

	responses := make([]*models.VideoResponse, 0, len(videos))
	for _, v := range videos {
		responses = append(responses, models.NewVideoResponse(v))
	}
	return c.JSON(fiber.Map{"query": query, "results": responses})
}
