package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ServerInterface is implemented by the fixture API handlers.
type ServerInterface interface {
	// (GET /health)
	GetHealth(c *gin.Context)
	// (GET /scenarios/{scenario}/rows)
	GetScenarioRows(c *gin.Context, scenario string)
	// (POST /scenarios/{scenario}/rows/{row}/seed)
	SeedScenarioRow(c *gin.Context, scenario string, row int)
	// (GET /ledger)
	GetLedger(c *gin.Context)
	// (GET /staging)
	GetStagedLiens(c *gin.Context, params GetStagedLiensParams)
}

type GetStagedLiensParams struct {
	TransactionIDs []string
	Limit          *uint64
}

// RegisterHandlers binds the fixture API routes to router.
func RegisterHandlers(router gin.IRouter, si ServerInterface) {
	router.GET("/health", si.GetHealth)

	router.GET("/scenarios/:scenario/rows", func(c *gin.Context) {
		si.GetScenarioRows(c, c.Param("scenario"))
	})

	router.POST("/scenarios/:scenario/rows/:row/seed", func(c *gin.Context) {
		row, err := strconv.Atoi(c.Param("row"))
		if err != nil || row <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "row must be a positive integer"})
			return
		}
		si.SeedScenarioRow(c, c.Param("scenario"), row)
	})

	router.GET("/ledger", si.GetLedger)

	router.GET("/staging", func(c *gin.Context) {
		params := GetStagedLiensParams{TransactionIDs: c.QueryArray("transactionId")}
		if raw, ok := c.GetQuery("limit"); ok {
			limit, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be a non-negative integer"})
				return
			}
			params.Limit = &limit
		}
		si.GetStagedLiens(c, params)
	})
}
