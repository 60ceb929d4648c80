package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reseller-ledger-backend/internal/middleware"
	"reseller-ledger-backend/internal/services/invoicing"
)

type InvoiceHandler struct {
	service *invoicing.Service
}

func NewInvoiceHandler(service *invoicing.Service) *InvoiceHandler {
	return &InvoiceHandler{service: service}
}

func (h *InvoiceHandler) Create(c *gin.Context) {
	var req invoicing.CreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	inv, err := h.service.Create(c.Request.Context(), middleware.CurrentUser(c).ID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inv)
}

func (h *InvoiceHandler) List(c *gin.Context) {
	p := pageFromQuery(c)
	invs, total, err := h.service.List(c.Request.Context(), middleware.CurrentUser(c).ID, c.Query("status"), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse(invs, total, p))
}

func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	inv, err := h.service.Get(c.Request.Context(), middleware.CurrentUser(c).ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// UpdateStatus moves an invoice through its state machine. Moving to paid
// also sells every linked item.
func (h *InvoiceHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	inv, err := h.service.TransitionStatus(c.Request.Context(), middleware.CurrentUser(c).ID, id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *InvoiceHandler) Pay(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	intent, err := h.service.CreatePaymentIntent(c.Request.Context(), middleware.CurrentUser(c).ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, intent)
}

func (h *InvoiceHandler) History(c *gin.Context) {
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
