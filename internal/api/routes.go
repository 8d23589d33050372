package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/satriahrh/suara/domain"
	"github.com/satriahrh/suara/domain/entities"
	"github.com/satriahrh/suara/usecase"
)

const (
	msgHealthy          = "Speech to Text API is running"
	msgRegistered       = "User registered successfully"
	msgAuthenticated    = "Authenticated user info"
	msgWelcome          = "Welcome to the Speech to Text API. Provide a valid JWT to get user information."
	msgTranscribed      = "Transcription completed successfully"
	msgInvalidBody      = "Invalid request format"
	msgRegisterRequired = "Email, password, and name are required"
	msgLoginRequired    = "Email and password are required"
	msgNoAudioFile      = "No audio file provided"
	formFieldAudio      = "audio"
	formFieldLanguage   = "language"
)

func (s *Server) initRoutes() {
	e := s.echo

	if s.metrics != nil {
		e.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	}

	api := e.Group("/api")
	api.GET("/health", s.health)
	api.GET("/languages", s.languages)
	api.GET("/currentuser", s.currentUser, s.optionalAuth)
	api.POST("/register", s.register)
	api.POST("/login", s.login)
	api.GET("/profile", s.profile, s.requireAuth)
	api.POST("/transcribe", s.transcribe, s.requireAuth)
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Message: msgHealthy,
	})
}

func (s *Server) languages(c echo.Context) error {
	return c.JSON(http.StatusOK, entities.SupportedLanguages())
}

func (s *Server) currentUser(c echo.Context) error {
	user := s.users.CurrentUser(c.Request().Context(), currentEmail(c))
	if user == nil {
		return c.JSON(http.StatusOK, CurrentUserResponse{
			Authenticated: false,
			Message:       msgWelcome,
		})
	}

	resp := toUserResponse(user)
	return c.JSON(http.StatusOK, CurrentUserResponse{
		Authenticated: true,
		Message:       msgAuthenticated,
		User:          &resp,
	})
}

func (s *Server) register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError(msgInvalidBody)
	}
	if err := c.Validate(&req); err != nil {
		return domain.NewValidationError(msgRegisterRequired)
	}

	if _, err := s.users.Register(c.Request().Context(), req.Email, req.Password, req.Name); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, MessageResponse{Message: msgRegistered})
}

func (s *Server) login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError(msgInvalidBody)
	}
	if err := c.Validate(&req); err != nil {
		return domain.NewValidationError(msgLoginRequired)
	}

	res, err := s.users.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, LoginResponse{
		AccessToken: res.AccessToken,
		User:        toUserResponse(res.User),
	})
}

func (s *Server) profile(c echo.Context) error {
	user, err := s.users.Profile(c.Request().Context(), currentEmail(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

func (s *Server) transcribe(c echo.Context) error {
	fh, err := c.FormFile(formFieldAudio)
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he
		}
		return domain.NewValidationError(msgNoAudioFile)
	}

	file, err := fh.Open()
	if err != nil {
		return domain.NewTranscriptionError(err)
	}
	defer file.Close()

	s.logger.Info("Transcription requested",
		zap.String("email", currentEmail(c)),
		zap.String("filename", fh.Filename),
		zap.Int64("size", fh.Size))

	text, err := s.transcription.Process(c.Request().Context(), usecase.Upload{
		Filename: fh.Filename,
		Body:     file,
	}, c.FormValue(formFieldLanguage))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, TranscriptionResponse{
		Success: true,
		Text:    text,
		Message: msgTranscribed,
	})
}
