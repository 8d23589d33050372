package stt

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/satriahrh/suara/domain"
)

func TestMockSpeechToText(t *testing.T) {
	ctx := context.Background()

	fixed := NewMockSpeechToText(zap.NewNop(), "hello world")
	text, err := fixed.TranscribeAudio(ctx, []byte{1, 2}, linear16)
	if err != nil {
		t.Fatalf("TranscribeAudio failed: %v", err)
	}
	if text != "hello world" {
		t.Errorf("Expected configured transcript, got %q", text)
	}

	if _, err := fixed.TranscribeAudio(ctx, nil, linear16); domain.KindOf(err) != domain.KindUnintelligibleAudio {
		t.Errorf("Expected unintelligible audio for empty clip, got %v", err)
	}

	sized := NewMockSpeechToText(zap.NewNop(), "")
	text, err = sized.TranscribeAudio(ctx, make([]byte, 20000), linear16)
	if err != nil {
		t.Fatalf("TranscribeAudio failed: %v", err)
	}
	if text == "" {
		t.Error("Expected a size-based transcript")
	}
}
