package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/satriahrh/suara/adapters/audio"
	"github.com/satriahrh/suara/adapters/memory"
	"github.com/satriahrh/suara/adapters/mongo"
	"github.com/satriahrh/suara/adapters/stt"
	"github.com/satriahrh/suara/domain/repositories"
	"github.com/satriahrh/suara/internal/api"
	"github.com/satriahrh/suara/internal/auth"
	"github.com/satriahrh/suara/internal/config"
	"github.com/satriahrh/suara/internal/metrics"
	"github.com/satriahrh/suara/internal/scratch"
	"github.com/satriahrh/suara/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.IsDevelopment() {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	ctx := context.Background()

	// Initialize adapters
	users, closeUsers, err := newUserRepository(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize user store", zap.Error(err))
	}
	defer closeUsers()

	speechToText, closeSTT, err := newSpeechToText(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize speech recognizer", zap.Error(err))
	}
	defer closeSTT()

	scratchFiles, err := scratch.NewManager(cfg.UploadFolder, logger)
	if err != nil {
		logger.Fatal("Failed to initialize scratch directory", zap.Error(err))
	}

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTAccessTTL)
	if err != nil {
		logger.Fatal("Failed to initialize token manager", zap.Error(err))
	}

	// Initialize usecase services
	m := metrics.New()
	converter := audio.NewFFmpegConverter(cfg.FFmpegPath, logger)
	transcription := usecase.NewTranscriptionService(
		usecase.NewUploadRules(cfg.AllowedExtensions, cfg.DefaultLanguage),
		scratchFiles,
		usecase.NewNormalizer(converter, scratchFiles, logger),
		speechToText,
		usecase.TranscriptionOptions{Calibration: cfg.Calibration, Metrics: m},
		logger,
	)
	userService := usecase.NewUserService(users, auth.NewBcryptHasher(0), tokens, logger)

	server := api.NewServer(api.Dependencies{
		Users:          userService,
		Transcription:  transcription,
		Tokens:         tokens,
		Metrics:        m,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Logger:         logger,
	})
	e := server.Echo()

	// Graceful shutdown
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Server started",
		zap.String("port", cfg.Port),
		zap.String("userStore", cfg.UserStore),
		zap.String("sttProvider", cfg.STTProvider),
		zap.String("uploadFolder", cfg.UploadFolder))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func newUserRepository(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repositories.UserRepository, func(), error) {
	if cfg.UserStore == config.StoreMemory {
		logger.Warn("Using in-memory user store; users are lost on restart")
		return memory.NewUserRepository(), func() {}, nil
	}

	client, err := mongo.NewClient(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
	if err != nil {
		return nil, nil, err
	}

	repo, err := mongo.NewUserRepository(ctx, client.Database, logger)
	if err != nil {
		client.Close(context.Background())
		return nil, nil, err
	}

	closeFn := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		client.Close(ctx)
	}
	return repo, closeFn, nil
}

func newSpeechToText(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repositories.SpeechToText, func(), error) {
	switch cfg.STTProvider {
	case config.ProviderGemini:
		s, err := stt.NewGeminiSpeechToText(ctx, stt.GeminiConfig{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GeminiModel,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	case config.ProviderMock:
		return stt.NewMockSpeechToText(logger, cfg.MockTranscript), func() {}, nil
	default:
		s, err := stt.NewGoogleSpeechToText(ctx, logger)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {
			if err := s.Close(); err != nil {
				logger.Warn("Failed to close speech client", zap.Error(err))
			}
		}, nil
	}
}
