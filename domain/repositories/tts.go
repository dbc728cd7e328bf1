package repositories

import "context"

// TextToSpeech abstracts speech synthesis services
type TextToSpeech interface {
	// SynthesizeToFile renders text as audio and writes it to dst in full before returning
	SynthesizeToFile(ctx context.Context, text string, dst string) error
}
