package repositories

import "context"

// AudioConverter transcodes an audio file into a WAV file
type AudioConverter interface {
	Convert(ctx context.Context, srcPath, dstPath string) error
}
