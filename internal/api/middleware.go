package api

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/satriahrh/suara/domain"
)

const (
	contextKeyEmail = "email"
	bearerPrefix    = "Bearer "

	msgMissingToken = "Missing authorization token"
	msgInvalidToken = "Invalid or expired token"
)

// bearerToken extracts the token from the Authorization header only
func bearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if len(authHeader) > len(bearerPrefix) && strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
		return strings.TrimSpace(authHeader[len(bearerPrefix):])
	}
	return ""
}

// requireAuth rejects requests without a valid user token
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := bearerToken(c)
		if token == "" {
			s.logger.Debug("Request rejected: missing token", zap.String("path", c.Path()))
			return domain.NewAuthError(msgMissingToken)
		}

		claims, err := s.tokens.ValidateToken(token)
		if err != nil {
			s.logger.Info("Request rejected: invalid token",
				zap.String("path", c.Path()),
				zap.Error(err))
			return domain.NewAuthError(msgInvalidToken)
		}

		c.Set(contextKeyEmail, claims.Email)
		return next(c)
	}
}

// optionalAuth records the caller's email when a valid token is present and never rejects
func (s *Server) optionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if token := bearerToken(c); token != "" {
			if claims, err := s.tokens.ValidateToken(token); err == nil {
				c.Set(contextKeyEmail, claims.Email)
			}
		}
		return next(c)
	}
}

func currentEmail(c echo.Context) string {
	email, _ := c.Get(contextKeyEmail).(string)
	return email
}

// requestLogger writes one structured access log line per request
func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			logger.Info("request", fields...)
			return nil
		},
	})
}
