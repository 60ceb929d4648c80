package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reseller-ledger-backend/internal/middleware"
	"reseller-ledger-backend/internal/repository"
	"reseller-ledger-backend/internal/services/inventory"
	"reseller-ledger-backend/internal/services/sales"
)

type InventoryHandler struct {
	service *inventory.Service
	sales   *sales.Service
}

func NewInventoryHandler(service *inventory.Service, sales *sales.Service) *InventoryHandler {
	return &InventoryHandler{service: service, sales: sales}
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *InventoryHandler) Create(c *gin.Context) {
	var req inventory.Attributes
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	item, err := h.service.Create(c.Request.Context(), middleware.CurrentUser(c).ID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *InventoryHandler) List(c *gin.Context) {
	p := pageFromQuery(c)
	f := repository.ItemFilter{Status: c.Query("status"), Category: c.Query("category")}
	items, total, err := h.service.List(c.Request.Context(), middleware.CurrentUser(c).ID, f, p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse(items, total, p))
}

func (h *InventoryHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	item, err := h.service.Get(c.Request.Context(), middleware.CurrentUser(c).ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *InventoryHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req inventory.Attributes
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	item, err := h.service.Update(c.Request.Context(), middleware.CurrentUser(c).ID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *InventoryHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), middleware.CurrentUser(c).ID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateStatus moves an item through the inventory state machine.
func (h *InventoryHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	item, err := h.service.TransitionStatus(c.Request.Context(), middleware.CurrentUser(c).ID, id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *InventoryHandler) History(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	entries, err := h.service.History(c.Request.Context(), middleware.CurrentUser(c).ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": entries})
}

func (h *InventoryHandler) Profit(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	profit, err := h.sales.ItemProfit(c.Request.Context(), middleware.CurrentUser(c).ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item_id": id, "profit": profit})
}
