package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/focusplan/internal/logger"
	"github.com/julianstephens/focusplan/internal/planner"
	"github.com/julianstephens/focusplan/internal/scheduler"
	"github.com/julianstephens/focusplan/internal/storage"
	"github.com/julianstephens/focusplan/internal/validation"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func respondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// respondErr maps domain errors onto HTTP statuses.
func respondErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, validation.ErrInvalid):
		respondError(c, http.StatusBadRequest, "invalid_input", err)
	case errors.Is(err, storage.ErrNotFound):
		respondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, scheduler.ErrInfeasible):
		respondError(c, http.StatusUnprocessableEntity, "infeasible", err)
	case errors.Is(err, planner.ErrConflict):
		respondError(c, http.StatusConflict, "conflict", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondError(c, http.StatusServiceUnavailable, "cancelled", err)
	default:
		logger.Error("request failed", "path", c.FullPath(), "err", err)
		respondError(c, http.StatusInternalServerError, "internal", err)
	}
}

func respondBadRequest(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, "bad_request", err)
}
