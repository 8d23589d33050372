package stt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/satriahrh/suara/adapters/audio"
	"github.com/satriahrh/suara/domain"
	"github.com/satriahrh/suara/domain/repositories"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiConfig holds configuration for the Gemini recognizer.
// BaseURL is only set to point the client at a non-default endpoint.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// GeminiSpeechToText transcribes audio by sending it inline to a Gemini model
type GeminiSpeechToText struct {
	client *genai.Client
	logger *zap.Logger
	model  string
}

var _ repositories.SpeechToText = (*GeminiSpeechToText)(nil)

// NewGeminiSpeechToText creates a Gemini API client
func NewGeminiSpeechToText(ctx context.Context, config GeminiConfig, logger *zap.Logger) (*GeminiSpeechToText, error) {
	if config.APIKey == "" {
		return nil, errors.New("GEMINI_API_KEY is required for the gemini speech provider")
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: config.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := config.Model
	if model == "" {
		model = defaultGeminiModel
		logger.Info("Using default model", zap.String("model", model))
	}

	return &GeminiSpeechToText{
		client: client,
		logger: logger,
		model:  model,
	}, nil
}

// TranscribeAudio wraps the PCM clip as WAV and asks the model for a verbatim transcript
func (g *GeminiSpeechToText) TranscribeAudio(ctx context.Context, audioData []byte, config repositories.AudioConfig) (string, error) {
	if config.Encoding != "LINEAR16" && config.Encoding != "WAV" {
		return "", fmt.Errorf("unsupported encoding: %s", config.Encoding)
	}

	channels := config.Channels
	if channels <= 0 {
		channels = 1
	}

	prompt := fmt.Sprintf("Transcribe the speech in this audio verbatim. The spoken language is %s. "+
		"Reply with the transcript only. If there is no intelligible speech, reply with nothing.", config.Language)

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromBytes(audio.EncodeWAV(audioData, config.SampleRate, channels), "audio/wav"),
		}, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0),
	})
	if err != nil {
		g.logger.Warn("Gemini transcription request failed",
			zap.String("model", g.model),
			zap.Error(err))
		return "", domain.NewRecognitionServiceError(err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", domain.NewUnintelligibleAudioError(config.Language)
	}

	return text, nil
}
