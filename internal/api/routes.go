package api

import (
	"context"
	"fmt"
	"io"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/satriahrh/agrivoice/server/domain/entities"
	"github.com/satriahrh/agrivoice/server/usecase"
)

const (
	serviceName    = "Agricultural Audio Assistant API"
	serviceVersion = "1.0.0"
)

// Recommender runs uploads through the pipeline
type Recommender interface {
	RecommendFromAudio(ctx context.Context, upload usecase.Upload) (*entities.Request, error)
	Release(req *entities.Request)
}

// OutputStore serves generated audio
type OutputStore interface {
	OpenOutput(filename string) (io.ReadSeekCloser, error)
}

// Options holds route settings
type Options struct {
	// OutputDir is exposed read-only under /outputs
	OutputDir string
	// MaxUploadBytes bounds the upload request body
	MaxUploadBytes int64
}

// InitRoutes initializes all API routes
func InitRoutes(e *echo.Echo, recommender Recommender, outputs OutputStore, options Options, logger *zap.Logger) {
	h := &handler{
		recommender: recommender,
		outputs:     outputs,
		logger:      logger,
	}

	e.HTTPErrorHandler = ErrorHandler(logger)

	// Service info and health check
	e.GET("/", info)
	e.GET("/health", health)

	uploadMiddleware := []echo.MiddlewareFunc{}
	if options.MaxUploadBytes > 0 {
		uploadMiddleware = append(uploadMiddleware, middleware.BodyLimit(fmt.Sprintf("%dB", options.MaxUploadBytes)))
	}

	e.POST("/recommend-from-audio", h.recommendFromAudio, uploadMiddleware...)
	e.GET("/download-audio/:filename", h.downloadAudio)

	if options.OutputDir != "" {
		e.Static("/outputs", options.OutputDir)
	}
}
