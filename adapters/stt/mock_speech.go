package stt

import (
	"context"

	"go.uber.org/zap"

	"github.com/satriahrh/suara/domain"
	"github.com/satriahrh/suara/domain/repositories"
)

// MockSpeechToText is an offline recognizer for development and tests.
// It returns the configured transcript, or a phrase chosen by clip size when none is set.
type MockSpeechToText struct {
	logger     *zap.Logger
	transcript string
}

var _ repositories.SpeechToText = (*MockSpeechToText)(nil)

// NewMockSpeechToText creates a new mock speech-to-text service
func NewMockSpeechToText(logger *zap.Logger, transcript string) *MockSpeechToText {
	return &MockSpeechToText{
		logger:     logger,
		transcript: transcript,
	}
}

// TranscribeAudio implements repositories.SpeechToText
func (s *MockSpeechToText) TranscribeAudio(ctx context.Context, audioData []byte, config repositories.AudioConfig) (string, error) {
	s.logger.Info("Processing speech-to-text",
		zap.Int("audioSize", len(audioData)),
		zap.Int("sampleRate", config.SampleRate),
		zap.String("encoding", config.Encoding),
		zap.String("language", config.Language))

	if len(audioData) == 0 {
		return "", domain.NewUnintelligibleAudioError(config.Language)
	}

	if s.transcript != "" {
		return s.transcript, nil
	}

	switch {
	case len(audioData) > 100000:
		return "This is a longer mock transcription of the uploaded recording.", nil
	case len(audioData) > 10000:
		return "Hello, this is a mock transcription.", nil
	default:
		return "Hello", nil
	}
}
