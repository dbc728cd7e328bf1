package entities

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/satriahrh/agrivoice/server/domain"
)

// AllowedExtensions lists the audio containers accepted for upload, in display order
var AllowedExtensions = []string{".wav", ".mp3", ".m4a", ".ogg", ".flac"}

// Request tracks one upload through the pipeline.
// It lives only for the duration of the HTTP request.
type Request struct {
	Token            string `json:"request_id"`
	OriginalFilename string `json:"original_filename"`
	Language         string `json:"language"`
	UploadPath       string `json:"-"`
	Transcript       string `json:"transcribed_query"`
	Reply            string `json:"recommendation"`
	OutputPath       string `json:"-"`
	OutputFilename   string `json:"audio_filename"`
}

// NewRequest creates a request with a fresh token
func NewRequest(filename, language string) *Request {
	return &Request{
		Token:            NewToken(),
		OriginalFilename: filename,
		Language:         language,
	}
}

// NewToken returns a 32 character hex identifier
func NewToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// OutputFilenameFor returns the name of the synthesized audio file for a token
func OutputFilenameFor(token string) string {
	return "response_" + token + ".mp3"
}

// DownloadURL returns the relative URL that serves the request's output audio
func (r *Request) DownloadURL() string {
	return "/download-audio/" + r.OutputFilename
}

// SanitizeFilename strips any directory component a client may have sent
func SanitizeFilename(filename string) string {
	name := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	return name
}

// ValidateAudioFilename checks that the filename carries an accepted audio extension
func ValidateAudioFilename(filename string) error {
	if filename == "" {
		return domain.NewClientInputError("No file uploaded")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return nil
		}
	}

	return domain.NewClientInputError("Unsupported file type. Allowed: %s", strings.Join(AllowedExtensions, ", "))
}
