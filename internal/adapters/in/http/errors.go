package http

import (
	"errors"
	"log/slog"
	"net/http"

	"kitchen/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// statusFor maps a use case error to the HTTP status it is reported with.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrAlreadyCompleted),
		errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, errs.ErrPreconditionFailed),
		errors.Is(err, errs.ErrVersionIsInvalid):
		return http.StatusConflict
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func errorBody(code int, err error) Error {
	body := Error{Code: code, Message: err.Error()}
	if code == http.StatusInternalServerError {
		body.Message = http.StatusText(code)
	}

	var precondition *errs.PreconditionFailedError
	if errors.As(err, &precondition) {
		body.BlockingItems = precondition.Blocking
	}
	return body
}

// NewErrorHandler renders every error as an Error body. Unmapped errors
// are logged and reported as 500 without detail.
func NewErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var body Error
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			body = Error{Code: httpErr.Code, Message: http.StatusText(httpErr.Code)}
			if msg, ok := httpErr.Message.(string); ok {
				body.Message = msg
			}
		} else {
			body = errorBody(statusFor(err), err)
		}

		if body.Code >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "request failed",
				"method", c.Request().Method,
				"path", c.Path(),
				"error", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(body.Code)
		} else {
			err = c.JSON(body.Code, body)
		}
		if err != nil {
			logger.Error("failed to write error response", "error", err)
		}
	}
}
