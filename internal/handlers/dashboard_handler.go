package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reseller-ledger-backend/internal/middleware"
	"reseller-ledger-backend/internal/services/dashboard"
)

type DashboardHandler struct {
	aggregator *dashboard.Aggregator
}

func NewDashboardHandler(aggregator *dashboard.Aggregator) *DashboardHandler {
	return &DashboardHandler{aggregator: aggregator}
}

func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.aggregator.Summary(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
