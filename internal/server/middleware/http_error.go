package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nguyentranbao-ct/price-compare/internal/models"
)

// ToResponseError maps any handler error to the JSON error envelope.
func ToResponseError(err error, c echo.Context) *ResponseError {
	resp := &ResponseError{
		Status:       http.StatusInternalServerError,
		Success:      false,
		Err:          err,
		ErrorCode:    ErrorCodeInternal,
		ErrorMessage: http.StatusText(http.StatusInternalServerError),
	}

	var (
		he *echo.HTTPError
		re *ResponseError
	)
	switch {
	case errors.As(err, &re):
		resp = re
	case errors.As(err, &he):
		resp.Status = he.Code
		resp.ErrorCode = ""
		resp.ErrorMessage = fmt.Sprint(he.Message)
	case errors.Is(err, models.ErrInvalidQuery):
		resp.Status = http.StatusBadRequest
		resp.ErrorCode = ErrorCodeInvalidQuery
		resp.ErrorMessage = err.Error()
	case errors.Is(err, models.ErrNotFound):
		resp.Status = http.StatusNotFound
		resp.ErrorCode = ErrorCodeNotFound
		resp.ErrorMessage = err.Error()
	case errors.Is(err, context.Canceled) && c.Request().Context().Err() == context.Canceled:
		// client went away
		resp.Status = 499
	}

	if resp.Status == http.StatusNotFound && isNotFoundHandler(c.Handler()) {
		resp.ErrorMessage = "no route matched"
	}
	return resp
}

// ErrorHandler return custom http error handler.
func ErrorHandler(log Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if err == nil || c.Response().Committed {
			return
		}

		resp := ToResponseError(err, c)
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(resp.Status)
		} else {
			err = c.JSON(resp.Status, resp)
		}
		if err != nil {
			log.Errorw("could not response", "code", resp.Status, "response_body", resp)
		}
	}
}
