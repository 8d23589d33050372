package repositories

import "context"

// SpeechToText abstracts speech recognition services.
// Implementations return domain.NewUnintelligibleAudioError when no speech could be
// recognized and domain.NewRecognitionServiceError when the service failed the request.
type SpeechToText interface {
	// TranscribeAudio converts audio data to text
	TranscribeAudio(ctx context.Context, audioData []byte, config AudioConfig) (string, error)
}

// AudioConfig represents audio configuration for speech recognition
type AudioConfig struct {
	SampleRate int    `json:"sample_rate"`
	Channels   int    `json:"channels"`
	Encoding   string `json:"encoding"`
	Language   string `json:"language"`
}
