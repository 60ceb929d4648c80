package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"reseller-ledger-backend/internal/middleware"
	"reseller-ledger-backend/internal/services/sales"
)

type TransactionHandler struct {
	service *sales.Service
}

func NewTransactionHandler(service *sales.Service) *TransactionHandler {
	return &TransactionHandler{service: service}
}

type logTransactionRequest struct {
	Method              string          `json:"method" binding:"required"`
	GrossAmount         decimal.Decimal `json:"gross_amount" binding:"money"`
	FeeAmount           decimal.Decimal `json:"fee_amount" binding:"money"`
	ItemID              *uuid.UUID      `json:"item_id"`
	ExternalReferenceID string          `json:"external_reference_id" binding:"max=255"`
	Notes               string          `json:"notes"`
}

type refundRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// Log records a sale and cascades it onto the linked item.
func (h *TransactionHandler) Log(c *gin.Context) {
	var req logTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	tx, err := h.service.LogTransaction(c.Request.Context(), sales.SaleInput{
		Owner:       middleware.CurrentUser(c).ID,
		Method:      req.Method,
		Gross:       req.GrossAmount,
		Fee:         req.FeeAmount,
		ItemID:      req.ItemID,
		ExternalRef: req.ExternalReferenceID,
		Notes:       req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tx)
}

func (h *TransactionHandler) List(c *gin.Context) {
	p := pageFromQuery(c)
	txs, total, err := h.service.List(c.Request.Context(), middleware.CurrentUser(c).ID, p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse(txs, total, p))
}

func (h *TransactionHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	tx, err := h.service.Get(c.Request.Context(), middleware.CurrentUser(c).ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

// Refund reverses a completed transaction. The body is optional.
func (h *TransactionHandler) Refund(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req refundRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			badRequest(c, err.Error())
			return
		}
	}
	refund, err := h.service.Refund(c.Request.Context(), middleware.CurrentUser(c).ID, id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, refund)
}
