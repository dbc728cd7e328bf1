package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap/zaptest"

	"github.com/satriahrh/agrivoice/server/adapters/filestore"
	"github.com/satriahrh/agrivoice/server/adapters/llm"
	"github.com/satriahrh/agrivoice/server/adapters/misconfigured"
	"github.com/satriahrh/agrivoice/server/adapters/stt"
	"github.com/satriahrh/agrivoice/server/adapters/tts"
	"github.com/satriahrh/agrivoice/server/domain/repositories"
	"github.com/satriahrh/agrivoice/server/usecase"
)

type testServer struct {
	echo  *echo.Echo
	store *filestore.LocalStore
}

func setupTestServer(t *testing.T, ttsStage repositories.TextToSpeech) *testServer {
	t.Helper()
	logger := zaptest.NewLogger(t)

	dir := t.TempDir()
	store, err := filestore.NewLocalStore(filestore.Config{
		UploadDir: filepath.Join(dir, "uploads"),
		OutputDir: filepath.Join(dir, "outputs"),
		TempDir:   filepath.Join(dir, "temp"),
	}, logger)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	if ttsStage == nil {
		ttsStage = tts.NewMockTextToSpeech(logger)
	}

	service := usecase.NewConversationService(
		stt.NewMockSpeechToText(logger),
		llm.NewMockLLM(),
		ttsStage,
		store,
		"en",
		logger,
	)

	e := echo.New()
	e.Use(RequestLogger(logger))
	InitRoutes(e, service, store, Options{
		OutputDir:      store.Dirs()[1],
		MaxUploadBytes: 1 << 20,
	}, logger)

	return &testServer{echo: e, store: store}
}

func multipartUpload(t *testing.T, field, filename string, content []byte, language string) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if filename != "" {
		part, err := writer.CreateFormFile(field, filename)
		if err != nil {
			t.Fatalf("Failed to create form file: %v", err)
		}
		part.Write(content)
	}
	if language != "" {
		writer.WriteField("language", language)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/recommend-from-audio", body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	return req
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func decodeDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode error body %q: %v", rec.Body.String(), err)
	}
	return resp.Detail
}

func TestRecommendFromAudio_EndToEnd(t *testing.T) {
	s := setupTestServer(t, nil)

	rec := s.do(multipartUpload(t, "audio_file", "question.wav", bytes.Repeat([]byte{1}, 5000), "en"))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp RecommendResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if !resp.Success {
		t.Error("Expected success flag")
	}
	if resp.TranscribedQuery == "" || resp.Recommendation == "" {
		t.Error("Expected transcript and recommendation")
	}
	if len(strings.Fields(resp.Recommendation)) > usecase.MaxReplyWords {
		t.Errorf("Expected reply under %d words", usecase.MaxReplyWords)
	}
	if resp.AudioFilename != "response_"+resp.RequestID+".mp3" {
		t.Errorf("Unexpected filename %q", resp.AudioFilename)
	}
	if resp.AudioDownloadURL != "/download-audio/"+resp.AudioFilename {
		t.Errorf("Unexpected download url %q", resp.AudioDownloadURL)
	}

	uploads, _ := os.ReadDir(s.store.Dirs()[0])
	if len(uploads) != 0 {
		t.Errorf("Expected upload to be discarded after the response, found %d files", len(uploads))
	}

	first := s.do(httptest.NewRequest(http.MethodGet, resp.AudioDownloadURL, nil))
	if first.Code != http.StatusOK {
		t.Fatalf("Expected download status 200, got %d", first.Code)
	}
	if ct := first.Header().Get(echo.HeaderContentType); ct != "audio/mpeg" {
		t.Errorf("Expected audio/mpeg, got %q", ct)
	}
	if cd := first.Header().Get(echo.HeaderContentDisposition); cd != "attachment; filename="+resp.AudioFilename {
		t.Errorf("Unexpected content disposition %q", cd)
	}
	if first.Body.Len() == 0 {
		t.Error("Expected non-empty audio payload")
	}

	second := s.do(httptest.NewRequest(http.MethodGet, resp.AudioDownloadURL, nil))
	if !bytes.Equal(first.Body.Bytes(), second.Body.Bytes()) {
		t.Error("Expected identical bytes on repeated download")
	}

	static := s.do(httptest.NewRequest(http.MethodGet, "/outputs/"+resp.AudioFilename, nil))
	if static.Code != http.StatusOK || !bytes.Equal(static.Body.Bytes(), first.Body.Bytes()) {
		t.Errorf("Expected static outputs view to serve the same file, got %d", static.Code)
	}
}

func TestRecommendFromAudio_ConcurrentSameFilename(t *testing.T) {
	s := setupTestServer(t, nil)

	const n = 4
	var wg sync.WaitGroup
	ids := make([]string, n)
	codes := make([]int, n)

	requests := make([]*http.Request, n)
	for i := range requests {
		requests[i] = multipartUpload(t, "audio_file", "same.mp3", []byte("audio-bytes"), "")
	}

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := s.do(requests[i])
			codes[i] = rec.Code
			var resp RecommendResponse
			json.Unmarshal(rec.Body.Bytes(), &resp)
			ids[i] = resp.AudioFilename
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for i := 0; i < n; i++ {
		if codes[i] != http.StatusOK {
			t.Errorf("Request %d failed with %d", i, codes[i])
		}
		if seen[ids[i]] {
			t.Errorf("Duplicate output filename %q", ids[i])
		}
		seen[ids[i]] = true
	}
}

func TestRecommendFromAudio_ClientErrors(t *testing.T) {
	tests := []struct {
		name   string
		req    func(t *testing.T) *http.Request
		detail string
	}{
		{
			name: "missing file",
			req: func(t *testing.T) *http.Request {
				return multipartUpload(t, "audio_file", "", nil, "en")
			},
			detail: "No file uploaded",
		},
		{
			name: "wrong field",
			req: func(t *testing.T) *http.Request {
				return multipartUpload(t, "file", "question.wav", []byte("audio"), "")
			},
			detail: "No file uploaded",
		},
		{
			name: "unsupported type",
			req: func(t *testing.T) *http.Request {
				return multipartUpload(t, "audio_file", "notes.txt", []byte("hello"), "")
			},
			detail: "Unsupported file type. Allowed: .wav, .mp3, .m4a, .ogg, .flac",
		},
		{
			name: "empty file",
			req: func(t *testing.T) *http.Request {
				return multipartUpload(t, "audio_file", "question.wav", nil, "")
			},
			detail: "Uploaded file is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := setupTestServer(t, nil)

			rec := s.do(tt.req(t))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("Expected status 400, got %d: %s", rec.Code, rec.Body.String())
			}
			if detail := decodeDetail(t, rec); detail != tt.detail {
				t.Errorf("Expected detail %q, got %q", tt.detail, detail)
			}
		})
	}
}

func TestRecommendFromAudio_Misconfigured(t *testing.T) {
	s := setupTestServer(t, misconfigured.New("OPENAI_API_KEY"))

	rec := s.do(multipartUpload(t, "audio_file", "question.mp3", []byte("audio-bytes"), ""))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", rec.Code)
	}
	if detail := decodeDetail(t, rec); detail != "Server misconfigured: OPENAI_API_KEY not set" {
		t.Errorf("Unexpected detail %q", detail)
	}
}

func TestRecommendFromAudio_BodyTooLarge(t *testing.T) {
	s := setupTestServer(t, nil)

	rec := s.do(multipartUpload(t, "audio_file", "big.wav", bytes.Repeat([]byte{1}, 2<<20), ""))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("Expected status 413, got %d", rec.Code)
	}
	if detail := decodeDetail(t, rec); detail == "" {
		t.Error("Expected a detail message")
	}
}

func TestDownloadAudio_NotFound(t *testing.T) {
	s := setupTestServer(t, nil)

	for _, path := range []string{
		"/download-audio/response_missing.mp3",
		"/download-audio/..%2Fuploads%2Fsecret.mp3",
		"/download-audio/.hidden",
	} {
		rec := s.do(httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: expected status 404, got %d", path, rec.Code)
			continue
		}
		if detail := decodeDetail(t, rec); detail != "Audio file not found" {
			t.Errorf("%s: unexpected detail %q", path, detail)
		}
	}
}

func TestHealth(t *testing.T) {
	s := setupTestServer(t, nil)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("Expected healthy, got %q", resp.Status)
	}
	if resp.Timestamp <= 0 {
		t.Errorf("Expected a unix timestamp, got %v", resp.Timestamp)
	}
}

func TestInfo(t *testing.T) {
	s := setupTestServer(t, nil)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var resp InfoResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Message != "Agricultural Audio Assistant API" || resp.Version != "1.0.0" {
		t.Errorf("Unexpected info %+v", resp)
	}
	if _, ok := resp.Endpoints["POST /recommend-from-audio"]; !ok {
		t.Error("Expected upload endpoint to be listed")
	}
}

func TestErrorHandler_UnknownRoute(t *testing.T) {
	s := setupTestServer(t, nil)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", rec.Code)
	}
	if detail := decodeDetail(t, rec); detail != "Not Found" {
		t.Errorf("Unexpected detail %q", detail)
	}
}

func TestClassify_Unclassified(t *testing.T) {
	status, detail := classify(errors.New("disk on fire"))
	if status != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", status)
	}
	if detail != "Internal server error" {
		t.Errorf("Expected generic detail, got %q", detail)
	}
}
