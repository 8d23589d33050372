package audio

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/satriahrh/suara/domain/repositories"
)

const defaultTargetSampleRate = 16000

// FFmpegConverter transcodes any input ffmpeg can decode into mono 16-bit PCM WAV
type FFmpegConverter struct {
	binary     string
	sampleRate int
	logger     *zap.Logger
}

var _ repositories.AudioConverter = (*FFmpegConverter)(nil)

// NewFFmpegConverter creates a converter that runs the given ffmpeg binary
func NewFFmpegConverter(binary string, logger *zap.Logger) *FFmpegConverter {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &FFmpegConverter{
		binary:     binary,
		sampleRate: defaultTargetSampleRate,
		logger:     logger,
	}
}

// Convert writes dstPath as WAV decoded from srcPath
func (c *FFmpegConverter) Convert(ctx context.Context, srcPath, dstPath string) error {
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-y",
		"-i", srcPath,
		"-ac", "1",
		"-ar", strconv.Itoa(c.sampleRate),
		"-acodec", "pcm_s16le",
		dstPath,
	}

	cmd := exec.CommandContext(ctx, c.binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	c.logger.Debug("Running ffmpeg",
		zap.String("src", srcPath),
		zap.String("dst", dstPath))

	if err := cmd.Run(); err != nil {
		// ffmpeg prefixes its messages with the input path
		msg := strings.NewReplacer(
			srcPath, filepath.Base(srcPath),
			dstPath, filepath.Base(dstPath),
		).Replace(strings.TrimSpace(stderr.String()))
		if msg != "" {
			return fmt.Errorf("ffmpeg: %s: %w", msg, err)
		}
		return fmt.Errorf("ffmpeg: %w", err)
	}

	return nil
}
