package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/satriahrh/suara/adapters/audio"
	"github.com/satriahrh/suara/domain"
	"github.com/satriahrh/suara/domain/repositories"
	"github.com/satriahrh/suara/internal/scratch"
)

const convertedSuffix = "_converted"

// Normalizer makes sure the pipeline always transcribes a WAV file
type Normalizer struct {
	converter repositories.AudioConverter
	scratch   *scratch.Manager
	logger    *zap.Logger
}

// NewNormalizer creates a new normalizer
func NewNormalizer(converter repositories.AudioConverter, scratch *scratch.Manager, logger *zap.Logger) *Normalizer {
	return &Normalizer{
		converter: converter,
		scratch:   scratch,
		logger:    logger,
	}
}

// Normalize returns h itself for integer PCM WAV uploads and a converted sibling file
// otherwise, including WAV files carrying float or compressed samples. Unreadable WAV files
// are passed through so the decode error surfaces when the segment is read.
// The sibling handle is returned even when conversion fails; the caller releases it.
// h is never released here.
func (n *Normalizer) Normalize(ctx context.Context, h *scratch.Handle, declaredExt string) (*scratch.Handle, error) {
	if strings.EqualFold(declaredExt, "wav") {
		pcm, err := audio.IsPCM(h.Path())
		if err != nil || pcm {
			return h, nil
		}
		n.logger.Info("WAV upload is not integer PCM", zap.String("source", h.Name()))
	}

	converted := n.scratch.Derive(h, convertedSuffix, "wav")
	n.logger.Info("Converting upload to WAV",
		zap.String("source", h.Name()),
		zap.String("format", declaredExt))

	if err := n.converter.Convert(ctx, h.Path(), converted.Path()); err != nil {
		n.logger.Warn("Audio conversion failed",
			zap.String("source", h.Name()),
			zap.Error(err))
		return converted, domain.NewConversionError(err)
	}

	return converted, nil
}
