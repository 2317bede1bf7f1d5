package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/cbo-qa/cbo-smoke/api/v1"
	"github.com/cbo-qa/cbo-smoke/internal/services"
	srvErrors "github.com/cbo-qa/cbo-smoke/pkg/errors"
)

type Handler struct {
	fixtureSrv *services.FixtureService
}

func New(fixtureSrv *services.FixtureService) *Handler {
	return &Handler{
		fixtureSrv: fixtureSrv,
	}
}

// GetHealth reports liveness and the run ID of the ledger
// (GET /health)
func (h *Handler) GetHealth(c *gin.Context) {
	runID, _ := h.fixtureSrv.Ledger()
	c.JSON(http.StatusOK, v1.Health{Status: "ok", RunID: runID})
}

// errorStatus maps service errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case srvErrors.IsResourceNotFoundError(err):
		return http.StatusNotFound
	case srvErrors.IsConfigurationError(err):
		return http.StatusInternalServerError
	case srvErrors.IsInvalidTemplateError(err):
		return http.StatusUnprocessableEntity
	case srvErrors.IsDatabaseError(err):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
