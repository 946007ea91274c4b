package main

import (
	"context"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"capsule/analysis"
	"capsule/config"
	"capsule/handlers"
	"capsule/logger"
	"capsule/media"
	"capsule/repository/sqlite"
	"capsule/scripts"
	videosvc "capsule/services/video"
	youtubesvc "capsule/services/youtube"
	"capsule/storage"
	"capsule/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := run(); err != nil {
		stdlog.Fatalf("capsule: %v", err)
	}
}

func run() error {
	// Missing .env is fine; the environment itself still applies.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.LogDir, cfg.Debug)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	log.WithFields(logrus.Fields{
		"version": cfg.Version,
		"port":    cfg.ServerPort,
	}).Info("Starting capsule")

	db, err := sqlite.InitDB(cfg.Database.Path, sqlite.DBConfig{
		MaxConnections:     cfg.Database.MaxConnections,
		MaxIdleConnections: cfg.Database.MaxIdleConnections,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer db.Close()

	repo, err := sqlite.NewRepository(db)
	if err != nil {
		return fmt.Errorf("init repository: %w", err)
	}

	store, err := storage.NewStore(cfg.UploadDir)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	extractor, err := media.NewExtractor(media.ExtractorConfig{
		FFmpegPath:  cfg.Media.FFmpegPath,
		FFprobePath: cfg.Media.FFprobePath,
		WorkDir:     cfg.TempDir,
	}, media.NewCommandRunner())
	if err != nil {
		return fmt.Errorf("init extractor: %w", err)
	}

	runner, err := scripts.NewScriptRunner(scripts.Config{
		WhisperPath: cfg.Media.WhisperPath,
		YTDLPPath:   cfg.Media.YTDLPPath,
		PythonPath:  cfg.Media.PythonPath,
		ScriptsPath: cfg.Media.ScriptsPath,
		Timeout:     cfg.Media.ProcessTimeout,
		TempDir:     cfg.TempDir,
		Model:       cfg.Media.WhisperModel,
	}, log)
	if err != nil {
		return fmt.Errorf("init script runner: %w", err)
	}

	var summarizer analysis.Summarizer
	if runner.SummarizerAvailable() {
		summarizer = analysis.NewAbstractiveSummarizer(runner.Summarize, cfg.Media.SummaryMinChars, log)
		log.Info("Using abstractive summarizer")
	} else {
		summarizer = analysis.NewExtractiveSummarizer(cfg.Media.SummaryMinChars)
		log.Info("Summarizer script unavailable, using extractive fallback")
	}

	validator := validation.NewValidator(cfg)

	videoService := videosvc.NewService(
		repo,
		store,
		extractor,
		runner,
		summarizer,
		extractor,
		validator,
		videosvc.Config{
			ProcessTimeout: cfg.Media.ProcessTimeout,
			Quotes: analysis.QuoteConfig{
				Threshold: cfg.Media.QuoteThreshold,
				Cap:       cfg.Media.QuoteCap,
			},
		},
		log,
	)

	youtubeService := youtubesvc.NewService(
		repo,
		store,
		runner,
		validator,
		youtubesvc.Config{
			DownloadTimeout: cfg.Media.ProcessTimeout,
			MaxDuration:     cfg.Media.MaxYouTubeDuration,
			MaxSize:         cfg.Media.MaxYouTubeSize,
		},
		log,
	)

	app, err := newApp(cfg, log, videoService, youtubeService)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(":" + cfg.ServerPort)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("Server stopped")
	return nil
}

func newApp(
	cfg *config.Config,
	log *logrus.Logger,
	videoService videosvc.Service,
	youtubeService youtubesvc.Service,
) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		AppName:      "capsule " + cfg.Version,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		BodyLimit:    int(cfg.Media.MaxUploadSize),
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())

	accessLog, err := logger.AccessWriter(cfg.LogDir)
	if err != nil {
		return nil, fmt.Errorf("init access log: %w", err)
	}
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
		Output: accessLog,
	}))

	if cfg.CORS.Enabled {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Join(cfg.CORS.AllowedOrigins, ","),
			AllowMethods:     strings.Join(cfg.CORS.AllowedMethods, ","),
			AllowHeaders:     strings.Join(cfg.CORS.AllowedHeaders, ","),
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           cfg.CORS.MaxAge,
		}))
	}

	if cfg.RateLimit.Enabled {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit.RequestsPerMinute,
			Expiration: time.Minute,
		}))
	}

	app.Use(compress.New())
	app.Use(etag.New())

	handler := handlers.NewVideoHandler(videoService, youtubeService, log)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"version": cfg.Version,
		})
	})

	api := app.Group("/api")
	api.Get("/search", handler.Search)

	videos := api.Group("/videos")
	videos.Post("/upload", handler.Upload)
	videos.Post("/youtube", handler.IngestYouTube)
	videos.Get("/", handler.List)
	videos.Get("/:id", handler.Get)
	videos.Post("/:id/process", handler.Process)
	videos.Post("/:id/reset", handler.Reset)
	videos.Delete("/:id", handler.Delete)
	videos.Delete("/:id/file", handler.DeleteFile)
	videos.Get("/:id/transcript", handler.GetTranscript)
	videos.Get("/:id/segments", handler.GetSegments)
	videos.Get("/:id/summaries", handler.GetSummaries)
	videos.Get("/:id/quotes", handler.GetQuotes)

	return app, nil
}
