package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/edf-hull-analysis/internal/domain"
	"github.com/KasumiMercury/edf-hull-analysis/internal/service/analysis"
	"github.com/KasumiMercury/edf-hull-analysis/internal/service/taskgen"
)

type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Stage     string `json:"stage,omitempty"`
	Invariant string `json:"invariant,omitempty"`
}

// classify maps a service error to an HTTP status and error type.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidTask),
		errors.Is(err, domain.ErrDegenerateInput),
		errors.Is(err, domain.ErrInvalidRandSetup),
		errors.Is(err, domain.ErrInvalidTaskStream):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, domain.ErrAllocation):
		return http.StatusRequestEntityTooLarge, "allocation_error"
	case errors.Is(err, domain.ErrHullComputation):
		return http.StatusUnprocessableEntity, "hull_error"
	case errors.Is(err, taskgen.ErrNoAcceptedSample):
		return http.StatusUnprocessableEntity, "sampling_error"
	case errors.Is(err, domain.ErrAnalysisNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, analysis.ErrDispatchDisabled):
		return http.StatusServiceUnavailable, "dispatch_disabled"
	default:
		return http.StatusInternalServerError, "processing_error"
	}
}

func respondError(c *gin.Context, err error) {
	status, errType := classify(err)

	resp := ErrorResponse{
		Error:   errType,
		Message: err.Error(),
	}

	var ae *domain.AnalysisError
	if errors.As(err, &ae) {
		resp.Stage = ae.Stage.String()
		resp.Invariant = ae.Invariant
	}

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed",
			slog.String("path", c.Request.URL.Path),
			slog.String("error", err.Error()),
		)
		if status == http.StatusInternalServerError {
			resp.Message = "internal server error"
		}
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, resp)
}

func respondBadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Error:   "validation_error",
		Message: message,
	})
}
