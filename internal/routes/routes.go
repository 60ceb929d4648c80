package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	handler "reseller-ledger-backend/internal/handlers"
	"reseller-ledger-backend/internal/middleware"
	"reseller-ledger-backend/internal/repository"
	"reseller-ledger-backend/internal/services/dashboard"
	"reseller-ledger-backend/internal/services/export"
	"reseller-ledger-backend/internal/services/inventory"
	"reseller-ledger-backend/internal/services/invoicing"
	"reseller-ledger-backend/internal/services/sales"
	"reseller-ledger-backend/internal/services/webhooks"
)

// Deps are the services the API is built from.
type Deps struct {
	Store         *repository.Store
	Logger        *zap.Logger
	Inventory     *inventory.Service
	Sales         *sales.Service
	Invoicing     *invoicing.Service
	Dashboard     *dashboard.Aggregator
	Export        *export.Service
	Gate          *webhooks.Gate
	Parser        handler.EventParser
	FreeItemLimit int
	ProPrice      decimal.Decimal
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	handler.RegisterValidators()

	inventoryHandler := handler.NewInventoryHandler(d.Inventory, d.Sales)
	transactionHandler := handler.NewTransactionHandler(d.Sales)
	invoiceHandler := handler.NewInvoiceHandler(d.Invoicing)
	webhookHandler := handler.NewWebhookHandler(d.Parser, d.Gate, d.Logger)
	dashboardHandler := handler.NewDashboardHandler(d.Dashboard)
	featureHandler := handler.NewFeatureHandler(d.FreeItemLimit, d.ProPrice)
	exportHandler := handler.NewExportHandler(d.Export)

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := api.Group("/v1")

	// Provider callbacks authenticate by signature, not by user.
	v1.POST("/webhooks/stripe", webhookHandler.Stripe)
	v1.GET("/features/tiers", featureHandler.Tiers)

	authed := v1.Group("", middleware.Owner(d.Store.Users))

	inv := authed.Group("/inventory")
	{
		inv.POST("", inventoryHandler.Create)
		inv.GET("", inventoryHandler.List)
		inv.GET("/:id", inventoryHandler.Get)
		inv.PUT("/:id", inventoryHandler.Update)
		inv.DELETE("/:id", inventoryHandler.Delete)
		inv.PATCH("/:id/status", inventoryHandler.UpdateStatus)
		inv.GET("/:id/history", inventoryHandler.History)
		inv.GET("/:id/profit", inventoryHandler.Profit)
	}

	tx := authed.Group("/transactions")
	{
		tx.POST("", transactionHandler.Log)
		tx.GET("", transactionHandler.List)
		tx.GET("/:id", transactionHandler.Get)
		tx.POST("/:id/refund", transactionHandler.Refund)
	}

	invoices := authed.Group("/invoices")
	{
		invoices.POST("", invoiceHandler.Create)
		invoices.GET("", invoiceHandler.List)
		invoices.GET("/:id", invoiceHandler.Get)
		invoices.PATCH("/:id/status", invoiceHandler.UpdateStatus)
		invoices.POST("/:id/pay", invoiceHandler.Pay)
		invoices.GET("/:id/history", invoiceHandler.History)
	}

	exports := authed.Group("/export")
	{
		exports.GET("/inventory", exportHandler.Inventory)
		exports.GET("/transactions", exportHandler.Transactions)
	}

	authed.GET("/dashboard", dashboardHandler.Summary)
	authed.GET("/features", featureHandler.Flags)
}
