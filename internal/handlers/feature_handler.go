package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"reseller-ledger-backend/internal/features"
	"reseller-ledger-backend/internal/middleware"
)

type FeatureHandler struct {
	freeItemLimit int
	proPrice      decimal.Decimal
}

func NewFeatureHandler(freeItemLimit int, proPrice decimal.Decimal) *FeatureHandler {
	return &FeatureHandler{freeItemLimit: freeItemLimit, proPrice: proPrice}
}

// Flags lists every feature with its state for the calling user.
func (h *FeatureHandler) Flags(c *gin.Context) {
	user := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{
		"tier":       user.SubscriptionTier,
		"is_partner": user.IsPartner,
		"features":   features.Flags(user.SubscriptionTier, user.IsPartner),
	})
}

func (h *FeatureHandler) Tiers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tiers": features.Tiers(h.freeItemLimit, h.proPrice)})
}
