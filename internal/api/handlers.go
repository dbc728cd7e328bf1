package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/satriahrh/agrivoice/server/domain"
	"github.com/satriahrh/agrivoice/server/usecase"
)

type handler struct {
	recommender Recommender
	outputs     OutputStore
	logger      *zap.Logger
}

func (h *handler) recommendFromAudio(c echo.Context) error {
	fileHeader, err := c.FormFile("audio_file")
	if err != nil {
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			return err
		}
		h.logger.Debug("No audio file in request", zap.Error(err))
		return domain.NewClientInputError("No file uploaded")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	language := c.FormValue("language")
	if language == "" {
		language = c.QueryParam("language")
	}

	req, err := h.recommender.RecommendFromAudio(c.Request().Context(), usecase.Upload{
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
		Content:  file,
		Language: language,
	})
	if err != nil {
		return err
	}
	defer h.recommender.Release(req)

	return c.JSON(http.StatusOK, RecommendResponse{
		Success:          true,
		RequestID:        req.Token,
		TranscribedQuery: req.Transcript,
		Recommendation:   req.Reply,
		AudioDownloadURL: req.DownloadURL(),
		AudioFilename:    req.OutputFilename,
	})
}

func (h *handler) downloadAudio(c echo.Context) error {
	filename := c.Param("filename")

	audio, err := h.outputs.OpenOutput(filename)
	if err != nil {
		return err
	}
	defer audio.Close()

	c.Response().Header().Set(echo.HeaderContentType, "audio/mpeg")
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+filename)
	http.ServeContent(c.Response(), c.Request(), filename, time.Time{}, audio)
	return nil
}

func health(c echo.Context) error {
	now := time.Now()
	return c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: float64(now.UnixNano()) / float64(time.Second),
	})
}

func info(c echo.Context) error {
	return c.JSON(http.StatusOK, InfoResponse{
		Message: serviceName,
		Version: serviceVersion,
		Endpoints: map[string]string{
			"POST /recommend-from-audio":     "Upload audio for agricultural advice",
			"GET /download-audio/{filename}": "Download generated audio response",
			"GET /health":                    "Health check",
		},
	})
}
