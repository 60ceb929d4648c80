package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"reseller-ledger-backend/internal/apperr"
	"reseller-ledger-backend/internal/repository"
)

var errorCodes = []struct {
	err    error
	status int
	code   string
}{
	{apperr.ErrNotFound, http.StatusNotFound, "not_found"},
	{apperr.ErrFeeExceedsGross, http.StatusBadRequest, "fee_exceeds_gross"},
	{apperr.ErrAlreadyRefunded, http.StatusConflict, "already_refunded"},
	{apperr.ErrCannotRefundRefund, http.StatusBadRequest, "cannot_refund_refund"},
	{apperr.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount"},
	{apperr.ErrInvalidMethod, http.StatusBadRequest, "invalid_method"},
	{apperr.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
	{apperr.ErrConflict, http.StatusConflict, "conflict"},
	{apperr.ErrTierLimit, http.StatusForbidden, "tier_limit_reached"},
	{apperr.ErrProRequired, http.StatusForbidden, "pro_required"},
	{apperr.ErrInvoiceNotPayable, http.StatusBadRequest, "invoice_not_payable"},
	{apperr.ErrPaymentsUnavailable, http.StatusServiceUnavailable, "payments_unavailable"},
	{apperr.ErrInvalidSignature, http.StatusBadRequest, "invalid_signature"},
}

// respondError renders a service error. Unknown errors become a bare 500.
func respondError(c *gin.Context, err error) {
	var te *apperr.TransitionError
	if errors.As(err, &te) {
		body := gin.H{
			"error":          te.Code,
			"message":        te.Error(),
			"current_status": te.Current,
			"target_status":  te.Target,
		}
		if te.Code == apperr.CodeInvalidStatus {
			body["valid_statuses"] = te.ValidStatuses
		} else {
			body["allowed_transitions"] = te.Allowed
		}
		c.JSON(http.StatusBadRequest, body)
		return
	}

	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			c.JSON(ec.status, gin.H{"error": ec.code, "message": err.Error()})
			return
		}
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": msg})
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid ID")
		return uuid.Nil, false
	}
	return id, true
}

func pageFromQuery(c *gin.Context) repository.Page {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	return repository.Page{Page: page, PerPage: perPage}
}

func listResponse(items interface{}, total int64, p repository.Page) gin.H {
	return gin.H{"items": items, "total": total, "page": p.Page, "per_page": p.PerPage}
}
