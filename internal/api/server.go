// Package api exposes the transcription and account services over HTTP with echo.
package api

import (
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/satriahrh/suara/internal/auth"
	"github.com/satriahrh/suara/internal/metrics"
	"github.com/satriahrh/suara/usecase"
)

// Dependencies are the collaborators a Server is built from
type Dependencies struct {
	Users          *usecase.UserService
	Transcription  *usecase.TranscriptionService
	Tokens         *auth.TokenManager
	Metrics        *metrics.Metrics
	MaxUploadBytes int64
	Logger         *zap.Logger
}

// Server owns the echo instance and implements the HTTP handlers
type Server struct {
	echo          *echo.Echo
	users         *usecase.UserService
	transcription *usecase.TranscriptionService
	tokens        *auth.TokenManager
	metrics       *metrics.Metrics
	logger        *zap.Logger
}

// NewServer wires middleware and routes onto a fresh echo instance
func NewServer(deps Dependencies) *Server {
	s := &Server{
		echo:          echo.New(),
		users:         deps.Users,
		transcription: deps.Transcription,
		tokens:        deps.Tokens,
		metrics:       deps.Metrics,
		logger:        deps.Logger,
	}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()
	e.HTTPErrorHandler = s.httpErrorHandler

	e.Use(requestLogger(s.logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	if deps.MaxUploadBytes > 0 {
		e.Use(middleware.BodyLimit(fmt.Sprintf("%dB", deps.MaxUploadBytes)))
	}

	s.initRoutes()
	return s
}

// Echo returns the underlying echo instance
func (s *Server) Echo() *echo.Echo { return s.echo }
