package repositories

import "context"

// SpeechToText abstracts speech recognition services
type SpeechToText interface {
	// TranscribeFile converts the audio stored at path to text.
	// language is a hint such as "en"; implementations fall back to their default when empty.
	TranscribeFile(ctx context.Context, path string, language string) (string, error)
}
