package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"time"

	"github.com/go-audio/wav"
)

// wavFormatPCM is the fmt chunk tag of integer PCM. Float (3), extensible (0xFFFE) and
// compressed tags are not decoded here.
const wavFormatPCM = 1

// ErrUnsupportedFormat is returned for valid WAV files whose samples are not integer PCM
var ErrUnsupportedFormat = errors.New("unsupported WAV encoding, only integer PCM is supported")

// Segment is the recognizable part of a WAV file as 16-bit little-endian PCM
type Segment struct {
	PCM        []byte
	SampleRate int
	Channels   int
	// AmbientRMS is the normalized RMS level (0..1) of the calibration window
	AmbientRMS float64
	Duration   time.Duration
}

// ReadSegment decodes the WAV file at path, measures the ambient level over the leading
// calibration window and returns the samples after that window.
func ReadSegment(path string, calibration time.Duration) (*Segment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", withoutPath(err))
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, errors.New("invalid WAV file")
	}
	if decoder.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("%w (format tag %#x)", ErrUnsupportedFormat, decoder.WavAudioFormat)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read PCM buffer: %w", err)
	}

	channels := int(decoder.NumChans)
	sampleRate := int(decoder.SampleRate)
	bitDepth := int(decoder.BitDepth)
	if channels <= 0 || sampleRate <= 0 {
		return nil, fmt.Errorf("unsupported WAV format: %d channels at %d Hz", channels, sampleRate)
	}

	samples := make([]int16, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = toInt16(v, bitDepth)
	}

	skip := int(calibration.Seconds()*float64(sampleRate)) * channels
	if skip > len(samples) {
		skip = len(samples)
	}

	rest := samples[skip:]
	pcm := make([]byte, 2*len(rest))
	for i, s := range rest {
		binary.LittleEndian.PutUint16(pcm[2*i:], uint16(s))
	}

	frames := len(rest) / channels
	return &Segment{
		PCM:        pcm,
		SampleRate: sampleRate,
		Channels:   channels,
		AmbientRMS: rms(samples[:skip]),
		Duration:   time.Duration(frames) * time.Second / time.Duration(sampleRate),
	}, nil
}

// IsPCM reports whether the file at path is a well-formed WAV carrying integer PCM.
// Files that are not WAV at all report false with an error.
func IsPCM(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("failed to open audio file: %w", withoutPath(err))
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return false, errors.New("invalid WAV file")
	}
	return decoder.WavAudioFormat == wavFormatPCM, nil
}

// withoutPath drops the file name from *fs.PathError so messages never expose server paths
func withoutPath(err error) error {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return fmt.Errorf("%s: %w", pe.Op, pe.Err)
	}
	return err
}

// EncodeWAV wraps 16-bit little-endian PCM in a canonical 44-byte RIFF header
func EncodeWAV(pcm []byte, sampleRate, channels int) []byte {
	const bitsPerSample = 16
	blockAlign := channels * bitsPerSample / 8

	var b bytes.Buffer
	b.Grow(44 + len(pcm))
	b.WriteString("RIFF")
	binary.Write(&b, binary.LittleEndian, uint32(36+len(pcm)))
	b.WriteString("WAVE")
	b.WriteString("fmt ")
	binary.Write(&b, binary.LittleEndian, uint32(16))
	binary.Write(&b, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&b, binary.LittleEndian, uint16(channels))
	binary.Write(&b, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&b, binary.LittleEndian, uint32(sampleRate*blockAlign))
	binary.Write(&b, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&b, binary.LittleEndian, uint16(bitsPerSample))
	b.WriteString("data")
	binary.Write(&b, binary.LittleEndian, uint32(len(pcm)))
	b.Write(pcm)
	return b.Bytes()
}

func toInt16(v, bitDepth int) int16 {
	switch {
	case bitDepth == 8:
		// 8-bit WAV is unsigned
		return int16((v - 128) << 8)
	case bitDepth > 16:
		return int16(v >> (bitDepth - 16))
	default:
		return int16(v)
	}
}

func rms(samples []int16) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		f := float64(s) / math.MaxInt16
		sum += f * f
	}
	return math.Sqrt(sum / float64(len(samples)))
}
