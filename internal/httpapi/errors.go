package httpapi

import (
	"errors"
	"net/http"

	"github.com/alexanderramin/planops/internal/domain"
	"github.com/alexanderramin/planops/internal/service"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Committed *int   `json:"committed,omitempty"`
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func errorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status := statusFor(err)
		body := ErrorResponse{Error: err.Error()}

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			body.Error = http.StatusText(status)
			if msg, ok := httpErr.Message.(string); ok {
				body.Error = msg
			}
		}
		var perr *service.PropagationError
		if errors.As(err, &perr) {
			body.Committed = &perr.Committed
		}
		if status >= http.StatusInternalServerError {
			logger.Error("request failed", zap.Error(err), zap.String("uri", c.Request().RequestURI))
			if perr == nil {
				body.Error = "internal error"
			}
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			logger.Warn("writing error response", zap.Error(err))
		}
	}
}
