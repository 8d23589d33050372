package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{name: "validation", err: NewValidationError("bad"), want: KindValidation},
		{name: "auth", err: NewAuthError("nope"), want: KindAuth},
		{name: "conflict", err: NewConflictError("dup"), want: KindConflict},
		{name: "not found", err: NewNotFoundError("missing"), want: KindNotFound},
		{name: "conversion", err: NewConversionError(errors.New("ffmpeg")), want: KindConversion},
		{name: "unintelligible", err: NewUnintelligibleAudioError("en-US"), want: KindUnintelligibleAudio},
		{name: "recognition", err: NewRecognitionServiceError(errors.New("down")), want: KindRecognitionService},
		{name: "transcription", err: NewTranscriptionError(errors.New("io")), want: KindTranscription},
		{name: "wrapped", err: fmt.Errorf("outer: %w", NewConflictError("dup")), want: KindConflict},
		{name: "plain error", err: errors.New("boom"), want: KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("Expected kind %s, got %s", tt.want, got)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	err := NewUnintelligibleAudioError("hi-IN")
	if !strings.Contains(err.Error(), "hi-IN") {
		t.Errorf("Expected message to mention the language, got %q", err.Error())
	}

	cause := errors.New("connection refused")
	err = NewRecognitionServiceError(cause)
	if !errors.Is(err, cause) {
		t.Error("Expected recognition error to unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("Expected upstream message, got %q", err.Error())
	}
}
