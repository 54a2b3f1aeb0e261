package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/reimburse/expense-system/internal/api/metrics"
	"github.com/reimburse/expense-system/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps each domain error kind to its HTTP status code so handlers can
//     return errors untranslated.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidExpense):
		metrics.WorkflowErrorsTotal.WithLabelValues("invalid_input").Inc()
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrExpenseNotFound):
		metrics.WorkflowErrorsTotal.WithLabelValues("not_found").Inc()
		return http.StatusNotFound, "expense not found"
	case errors.Is(err, domain.ErrUserNotFound):
		metrics.WorkflowErrorsTotal.WithLabelValues("not_found").Inc()
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrNotApprover):
		metrics.WorkflowErrorsTotal.WithLabelValues("forbidden").Inc()
		return http.StatusForbidden, "only the designated approver may decide"
	case errors.Is(err, domain.ErrForbidden):
		metrics.WorkflowErrorsTotal.WithLabelValues("forbidden").Inc()
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrAlreadyDecided):
		metrics.WorkflowErrorsTotal.WithLabelValues("conflict").Inc()
		return http.StatusConflict, "expense already decided"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "user already exists"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	metrics.WorkflowErrorsTotal.WithLabelValues("internal").Inc()
	return http.StatusInternalServerError, "internal server error"
}
