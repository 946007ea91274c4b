package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "capsule/errors"
	"capsule/models"
	"capsule/repository"
	videosvc "capsule/services/video"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubVideoService serves canned responses so the handlers can be exercised
// through a real fiber app.
type stubVideoService struct {
	video      *models.Video
	videos     []*models.Video
	counts     repository.DeletionCounts
	transcript *models.Transcript
	segments   []*models.TranscriptSegment
	err        error
}

func (s *stubVideoService) Create(context.Context, *multipart.FileHeader) (*models.Video, error) {
	return s.video, s.err
}

func (s *stubVideoService) Get(context.Context, string) (*models.Video, error) {
	return s.video, s.err
}

func (s *stubVideoService) List(context.Context) ([]*models.Video, error) {
	return s.videos, s.err
}

func (s *stubVideoService) Search(context.Context, string) ([]*models.Video, error) {
	return s.videos, s.err
}

func (s *stubVideoService) Process(context.Context, string) (*models.Video, error) {
	return s.video, s.err
}

func (s *stubVideoService) Reset(context.Context, string) (*models.Video, error) {
	return s.video, s.err
}

func (s *stubVideoService) Delete(context.Context, string) (repository.DeletionCounts, error) {
	return s.counts, s.err
}

func (s *stubVideoService) DeleteFile(context.Context, string) (*models.Video, error) {
	return s.video, s.err
}

func (s *stubVideoService) GetTranscript(context.Context, string) (*models.Transcript, []*models.TranscriptSegment, error) {
	return s.transcript, s.segments, s.err
}

func (s *stubVideoService) GetSummaries(context.Context, string) ([]*models.Summary, error) {
	return nil, s.err
}

func (s *stubVideoService) GetQuotes(context.Context, string) ([]*models.Quote, error) {
	return nil, s.err
}

type stubYouTubeService struct {
	video *models.Video
	err   error
}

func (s *stubYouTubeService) Ingest(context.Context, string) (*models.Video, error) {
	return s.video, s.err
}

func newTestApp(svc videosvc.Service, yt *stubYouTubeService) *fiber.App {
	log := logrus.New()
	log.SetOutput(io.Discard)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	handler := NewVideoHandler(svc, yt, log)

	api := app.Group("/api")
	api.Get("/search", handler.Search)

	videos := api.Group("/videos")
	videos.Post("/upload", handler.Upload)
	videos.Post("/youtube", handler.IngestYouTube)
	videos.Get("/", handler.List)
	videos.Get("/:id", handler.Get)
	videos.Post("/:id/process", handler.Process)
	videos.Delete("/:id", handler.Delete)
	videos.Get("/:id/transcript", handler.GetTranscript)

	return app
}

func testVideo() *models.Video {
	return &models.Video{
		ID:       "job-1",
		Title:    "clip.mp4",
		Status:   models.StatusUploaded,
		FileSize: 2048,
	}
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	body := make(map[string]interface{})
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestGetVideo(t *testing.T) {
	app := newTestApp(&stubVideoService{video: testVideo()}, &stubYouTubeService{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/videos/job-1", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "job-1", body["id"])
	assert.Equal(t, "uploaded", body["status"])
}

func TestGetVideoNotFound(t *testing.T) {
	svc := &stubVideoService{err: apperrors.NotFound("stub", nil, "Video not found")}
	app := newTestApp(svc, &stubYouTubeService{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/videos/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Video not found", body["error"])
}

func TestProcessAccepted(t *testing.T) {
	video := testVideo()
	video.Status = models.StatusProcessing
	app := newTestApp(&stubVideoService{video: video}, &stubYouTubeService{})

	resp, err := app.Test(httptest.NewRequest("POST", "/api/videos/job-1/process", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "processing", body["status"])
}

func TestProcessConflict(t *testing.T) {
	svc := &stubVideoService{err: apperrors.Conflict("stub", nil, "Video is currently processing")}
	app := newTestApp(svc, &stubYouTubeService{})

	resp, err := app.Test(httptest.NewRequest("POST", "/api/videos/job-1/process", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestDeleteReturnsCounts(t *testing.T) {
	svc := &stubVideoService{counts: repository.DeletionCounts{
		Transcripts: 1, Segments: 12, Summaries: 3, Quotes: 5,
	}}
	app := newTestApp(svc, &stubYouTubeService{})

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/videos/job-1", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	deleted, ok := body["deleted"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(12), deleted["segments"])
}

func TestIngestYouTube(t *testing.T) {
	video := testVideo()
	video.Status = models.StatusDownloading
	app := newTestApp(&stubVideoService{}, &stubYouTubeService{video: video})

	payload := strings.NewReader(`{"url": "https://youtu.be/abc"}`)
	req := httptest.NewRequest("POST", "/api/videos/youtube", payload)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "downloading", body["status"])
}

func TestIngestYouTubeMissingURL(t *testing.T) {
	app := newTestApp(&stubVideoService{}, &stubYouTubeService{})

	req := httptest.NewRequest("POST", "/api/videos/youtube", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUploadRequiresFile(t *testing.T) {
	app := newTestApp(&stubVideoService{}, &stubYouTubeService{})

	resp, err := app.Test(httptest.NewRequest("POST", "/api/videos/upload", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpload(t *testing.T) {
	app := newTestApp(&stubVideoService{video: testVideo()}, &stubYouTubeService{})

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "clip.mp4")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake video bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/videos/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "job-1", body["video_id"])
}

func TestSearchRequiresQuery(t *testing.T) {
	app := newTestApp(&stubVideoService{}, &stubYouTubeService{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/search", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSearch(t *testing.T) {
	app := newTestApp(&stubVideoService{videos: []*models.Video{testVideo()}}, &stubYouTubeService{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/search?q=clip", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	results, ok := body["results"].([]interface{})
	require.True(t, ok)
	assert.Len(t, results, 1)
}
