package handler

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"reseller-ledger-backend/internal/middleware"
	"reseller-ledger-backend/internal/models"
	"reseller-ledger-backend/internal/services/export"
)

type ExportHandler struct {
	service *export.Service
}

func NewExportHandler(service *export.Service) *ExportHandler {
	return &ExportHandler{service: service}
}

func (h *ExportHandler) Inventory(c *gin.Context) {
	h.download(c, "inventory.csv", h.service.Inventory)
}

func (h *ExportHandler) Transactions(c *gin.Context) {
	h.download(c, "transactions.csv", h.service.Transactions)
}

func (h *ExportHandler) download(c *gin.Context, filename string,
	write func(context.Context, *models.User, io.Writer) error) {
	var buf bytes.Buffer
	if err := write(c.Request.Context(), middleware.CurrentUser(c), &buf); err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
