package usecase

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/satriahrh/suara/adapters/audio"
	"github.com/satriahrh/suara/domain/repositories"
	"github.com/satriahrh/suara/internal/scratch"
)

// toneWAV returns a mono 16 kHz WAV of a 440 Hz tone lasting d
func toneWAV(d time.Duration) []byte {
	const rate = 16000
	n := int(d.Seconds() * rate)
	pcm := make([]byte, 2*n)
	for i := 0; i < n; i++ {
		v := int16(8000 * math.Sin(2*math.Pi*440*float64(i)/rate))
		binary.LittleEndian.PutUint16(pcm[2*i:], uint16(v))
	}
	return audio.EncodeWAV(pcm, rate, 1)
}

// floatWAV returns a mono 16 kHz 32-bit IEEE float WAV (format tag 3) of a 0.25 amplitude tone
func floatWAV(d time.Duration) []byte {
	const rate = 16000
	n := int(d.Seconds() * rate)

	var b bytes.Buffer
	b.WriteString("RIFF")
	binary.Write(&b, binary.LittleEndian, uint32(36+4*n))
	b.WriteString("WAVEfmt ")
	binary.Write(&b, binary.LittleEndian, uint32(16))
	binary.Write(&b, binary.LittleEndian, uint16(3))
	binary.Write(&b, binary.LittleEndian, uint16(1))
	binary.Write(&b, binary.LittleEndian, uint32(rate))
	binary.Write(&b, binary.LittleEndian, uint32(rate*4))
	binary.Write(&b, binary.LittleEndian, uint16(4))
	binary.Write(&b, binary.LittleEndian, uint16(32))
	b.WriteString("data")
	binary.Write(&b, binary.LittleEndian, uint32(4*n))
	for i := 0; i < n; i++ {
		binary.Write(&b, binary.LittleEndian, float32(0.25*math.Sin(2*math.Pi*440*float64(i)/rate)))
	}
	return b.Bytes()
}

type stubConverter struct {
	calls   int
	partial bool
	err     error
}

func (c *stubConverter) Convert(ctx context.Context, srcPath, dstPath string) error {
	c.calls++
	if c.err != nil {
		if c.partial {
			os.WriteFile(dstPath, []byte("RIFF"), 0o600)
		}
		return c.err
	}
	return os.WriteFile(dstPath, toneWAV(time.Second), 0o600)
}

type stubRecognizer struct {
	text   string
	err    error
	config repositories.AudioConfig
	bytes  int
	pcm    []byte
}

func (r *stubRecognizer) TranscribeAudio(ctx context.Context, audioData []byte, config repositories.AudioConfig) (string, error) {
	r.config = config
	r.bytes = len(audioData)
	r.pcm = audioData
	return r.text, r.err
}

func newTestScratch(t *testing.T) *scratch.Manager {
	t.Helper()
	m, err := scratch.NewManager(filepath.Join(t.TempDir(), "uploads"), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Failed to create scratch manager: %v", err)
	}
	return m
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read dir: %v", err)
	}
	if len(entries) != 0 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("Expected empty scratch dir, got %v", names)
	}
}

var errBoom = errors.New("boom")

func wavReader(d time.Duration) *bytes.Reader {
	return bytes.NewReader(toneWAV(d))
}
