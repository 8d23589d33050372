package usecase

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"

	"github.com/satriahrh/suara/domain"
)

const (
	msgNoFileSelected  = "No file selected"
	msgTypeNotAllowed  = "File type not allowed. Please upload WAV, MP3, M4A, FLAC, AAC, or WebM files."
	msgInvalidLanguage = "Invalid language code: %s"
)

// UploadRules checks an upload's filename and language before any file is written
type UploadRules struct {
	allowed         map[string]struct{}
	defaultLanguage string
}

// NewUploadRules creates rules for the given extensions (case-insensitive, with or without dot)
func NewUploadRules(allowedExtensions []string, defaultLanguage string) *UploadRules {
	allowed := make(map[string]struct{}, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			allowed[ext] = struct{}{}
		}
	}
	if defaultLanguage == "" {
		defaultLanguage = "en-US"
	}
	return &UploadRules{allowed: allowed, defaultLanguage: defaultLanguage}
}

// ValidateFilename returns the lower-case extension of filename when it is allowed
func (r *UploadRules) ValidateFilename(filename string) (string, error) {
	if strings.TrimSpace(filename) == "" {
		return "", domain.NewValidationError(msgNoFileSelected)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if _, ok := r.allowed[ext]; !ok || ext == "" {
		return "", domain.NewValidationError(msgTypeNotAllowed)
	}
	return ext, nil
}

// ResolveLanguage returns the canonical BCP-47 form of tag, or the default for an empty tag
func (r *UploadRules) ResolveLanguage(tag string) (string, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return r.defaultLanguage, nil
	}

	parsed, err := language.Parse(tag)
	if err != nil {
		return "", domain.NewValidationError(fmt.Sprintf(msgInvalidLanguage, tag))
	}
	return parsed.String(), nil
}
