package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/satriahrh/suara/domain"
)

const msgInternalError = "Internal server error"

var statusByKind = map[domain.ErrorKind]int{
	domain.KindValidation:          http.StatusBadRequest,
	domain.KindAuth:                http.StatusUnauthorized,
	domain.KindConflict:            http.StatusConflict,
	domain.KindNotFound:            http.StatusNotFound,
	domain.KindConversion:          http.StatusInternalServerError,
	domain.KindUnintelligibleAudio: http.StatusInternalServerError,
	domain.KindRecognitionService:  http.StatusInternalServerError,
	domain.KindTranscription:       http.StatusInternalServerError,
	domain.KindInternal:            http.StatusInternalServerError,
}

// errorResponse resolves err into a status code and a message safe to return
func errorResponse(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprint(he.Message)
	}

	var de *domain.Error
	if !errors.As(err, &de) || de.Kind == domain.KindInternal {
		return http.StatusInternalServerError, msgInternalError
	}

	status, ok := statusByKind[de.Kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	return status, de.Error()
}

// httpErrorHandler renders every error returned by a handler as {"error": message}
func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, message := errorResponse(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.String("kind", domain.KindOf(err).String()),
			zap.Error(err))
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, ErrorResponse{Error: message})
	}
	if err != nil {
		s.logger.Error("Failed to write error response", zap.Error(err))
	}
}
