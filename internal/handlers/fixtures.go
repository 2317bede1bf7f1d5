package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/cbo-qa/cbo-smoke/api/v1"
)

const maxStagedLimit = 500

// GetScenarioRows returns every row of a scenario sheet
// (GET /scenarios/{scenario}/rows)
func (h *Handler) GetScenarioRows(c *gin.Context, scenario string) {
	rows, sheet, err := h.fixtureSrv.Rows(scenario)
	if err != nil {
		zap.S().Named("fixture_handler").Errorw("failed to read scenario rows", "scenario", scenario, "sheet", sheet, "error", err)
		c.JSON(errorStatus(err), v1.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, v1.NewScenarioRows(scenario, sheet, rows))
}

// SeedScenarioRow resolves one row and writes it to the staging tables
// (POST /scenarios/{scenario}/rows/{row}/seed)
func (h *Handler) SeedScenarioRow(c *gin.Context, scenario string, row int) {
	rec, err := h.fixtureSrv.Seed(c.Request.Context(), scenario, row)
	if err != nil {
		zap.S().Named("fixture_handler").Errorw("failed to seed row", "scenario", scenario, "row", row, "error", err)
		c.JSON(errorStatus(err), v1.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, v1.NewSeedResult(*rec))
}

// GetLedger returns every value generated during this run
// (GET /ledger)
func (h *Handler) GetLedger(c *gin.Context) {
	runID, snapshot := h.fixtureSrv.Ledger()
	c.JSON(http.StatusOK, v1.NewLedger(runID, snapshot))
}

// GetStagedLiens lists staged liens, newest first
// (GET /staging)
func (h *Handler) GetStagedLiens(c *gin.Context, params v1.GetStagedLiensParams) {
	var limit uint64 = maxStagedLimit
	if params.Limit != nil && *params.Limit > 0 && *params.Limit < maxStagedLimit {
		limit = *params.Limit
	}

	liens, err := h.fixtureSrv.Staged(c.Request.Context(), params.TransactionIDs, limit)
	if err != nil {
		zap.S().Named("fixture_handler").Errorw("failed to list staged liens", "error", err)
		c.JSON(errorStatus(err), v1.ErrorResponse{Error: "failed to list staged liens"})
		return
	}

	c.JSON(http.StatusOK, v1.NewStagedLienList(liens))
}
