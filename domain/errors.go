package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies domain errors so the transport layer can pick a status code
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindAuth
	KindConflict
	KindNotFound
	KindConversion
	KindUnintelligibleAudio
	KindRecognitionService
	KindTranscription
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindAuth:
		return "auth_error"
	case KindConflict:
		return "conflict_error"
	case KindNotFound:
		return "not_found"
	case KindConversion:
		return "conversion_error"
	case KindUnintelligibleAudio:
		return "unintelligible_audio"
	case KindRecognitionService:
		return "recognition_service_error"
	case KindTranscription:
		return "transcription_error"
	default:
		return "internal_error"
	}
}

// Error is the error type returned by usecases and adapters.
// Message is safe to show to the caller; Err carries the underlying cause.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of the first *Error in err's chain, KindInternal otherwise
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// NewValidationError reports malformed or missing input
func NewValidationError(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

// NewAuthError reports bad credentials or a missing/invalid token
func NewAuthError(message string) error {
	return &Error{Kind: KindAuth, Message: message}
}

// NewConflictError reports a duplicate resource
func NewConflictError(message string) error {
	return &Error{Kind: KindConflict, Message: message}
}

// NewNotFoundError reports a missing resource
func NewNotFoundError(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

// NewConversionError wraps a failure of the audio transcoder
func NewConversionError(err error) error {
	return &Error{
		Kind:    KindConversion,
		Message: fmt.Sprintf("audio conversion failed: %v", err),
		Err:     err,
	}
}

// NewUnintelligibleAudioError is returned when the recognizer found no speech.
// The message points the caller at clarity and the requested language.
func NewUnintelligibleAudioError(language string) error {
	return &Error{
		Kind: KindUnintelligibleAudio,
		Message: fmt.Sprintf("Speech Recognition could not understand the audio. "+
			"Please ensure the audio is clear and in %s language.", language),
	}
}

// NewRecognitionServiceError wraps an unreachable or rejecting recognition service
func NewRecognitionServiceError(err error) error {
	return &Error{
		Kind:    KindRecognitionService,
		Message: fmt.Sprintf("Could not request results from Speech Recognition service; %v", err),
		Err:     err,
	}
}

// NewTranscriptionError wraps any other failure of the transcription pipeline
func NewTranscriptionError(err error) error {
	return &Error{
		Kind:    KindTranscription,
		Message: fmt.Sprintf("Transcription failed: %v", err),
		Err:     err,
	}
}
