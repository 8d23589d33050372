package usecase

import (
	"context"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/satriahrh/suara/adapters/audio"
	"github.com/satriahrh/suara/domain"
	"github.com/satriahrh/suara/domain/repositories"
	"github.com/satriahrh/suara/internal/metrics"
	"github.com/satriahrh/suara/internal/scratch"
)

const recognitionEncoding = "LINEAR16"

// Upload is an audio file as received from the client
type Upload struct {
	Filename string
	Body     io.Reader
}

// TranscriptionService runs an upload through scratch storage, normalization and recognition
type TranscriptionService struct {
	rules        *UploadRules
	scratch      *scratch.Manager
	normalizer   *Normalizer
	speechToText repositories.SpeechToText
	calibration  time.Duration
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

// TranscriptionOptions carries the tunables of the pipeline
type TranscriptionOptions struct {
	// Calibration is the leading span used to measure ambient noise; it is not recognized
	Calibration time.Duration
	Metrics     *metrics.Metrics
}

// NewTranscriptionService creates a new transcription service
func NewTranscriptionService(
	rules *UploadRules,
	scratch *scratch.Manager,
	normalizer *Normalizer,
	stt repositories.SpeechToText,
	opts TranscriptionOptions,
	logger *zap.Logger,
) *TranscriptionService {
	return &TranscriptionService{
		rules:        rules,
		scratch:      scratch,
		normalizer:   normalizer,
		speechToText: stt,
		calibration:  opts.Calibration,
		metrics:      opts.Metrics,
		logger:       logger,
	}
}

// Process validates and stores the upload, converts it to WAV when needed and transcribes it.
// Every scratch file created on the way is removed before Process returns.
func (s *TranscriptionService) Process(ctx context.Context, upload Upload, lang string) (text string, err error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveTranscription(outcomeOf(err), time.Since(start))
	}()

	ext, err := s.rules.ValidateFilename(upload.Filename)
	if err != nil {
		return "", err
	}
	lang, err = s.rules.ResolveLanguage(lang)
	if err != nil {
		return "", err
	}

	original, err := s.scratch.Acquire(upload.Body, upload.Filename)
	defer s.scratch.Release(original)
	if err != nil {
		return "", domain.NewTranscriptionError(err)
	}
	s.metrics.ObserveUploadSize(original.Size())

	wav, err := s.normalizer.Normalize(ctx, original, ext)
	if wav != original {
		defer s.scratch.Release(wav)
		if err == nil {
			s.metrics.IncConversions()
		}
	}
	if err != nil {
		return "", err
	}

	return s.Transcribe(ctx, wav, lang)
}

// Transcribe recognizes the speech in the WAV file behind h
func (s *TranscriptionService) Transcribe(ctx context.Context, h *scratch.Handle, lang string) (string, error) {
	segment, err := audio.ReadSegment(h.Path(), s.calibration)
	if err != nil {
		return "", domain.NewTranscriptionError(err)
	}

	s.logger.Debug("Audio segment ready",
		zap.String("file", h.Name()),
		zap.Int("sampleRate", segment.SampleRate),
		zap.Int("channels", segment.Channels),
		zap.Float64("ambientRMS", segment.AmbientRMS),
		zap.Duration("duration", segment.Duration))

	if len(segment.PCM) == 0 {
		return "", domain.NewUnintelligibleAudioError(lang)
	}

	text, err := s.speechToText.TranscribeAudio(ctx, segment.PCM, repositories.AudioConfig{
		SampleRate: segment.SampleRate,
		Channels:   segment.Channels,
		Encoding:   recognitionEncoding,
		Language:   lang,
	})
	if err != nil {
		switch domain.KindOf(err) {
		case domain.KindUnintelligibleAudio, domain.KindRecognitionService:
			return "", err
		default:
			return "", domain.NewTranscriptionError(err)
		}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", domain.NewUnintelligibleAudioError(lang)
	}

	s.logger.Info("Transcription completed",
		zap.String("file", h.Name()),
		zap.String("language", lang),
		zap.Int("length", len(text)))
	return text, nil
}

func outcomeOf(err error) string {
	if err == nil {
		return metrics.OutcomeSuccess
	}
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return metrics.OutcomeRejected
	case domain.KindConversion:
		return metrics.OutcomeConversion
	case domain.KindUnintelligibleAudio:
		return metrics.OutcomeUnintelligible
	case domain.KindRecognitionService:
		return metrics.OutcomeService
	default:
		return metrics.OutcomeFailed
	}
}
