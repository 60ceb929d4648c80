package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reseller-ledger-backend/internal/apperr"
	"reseller-ledger-backend/internal/services/ledger"
)

func init() {
	gin.SetMode(gin.TestMode)
	RegisterValidators()
}

func render(err error) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondError(c, err)
	return w
}

func TestRespondErrorTransition(t *testing.T) {
	err := ledger.CheckInventoryTransition("archived", "listed")
	w := render(fmt.Errorf("transition: %w", err))

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, apperr.CodeInvalidTransition, body["error"])
	assert.Equal(t, "archived", body["current_status"])
	assert.Equal(t, "listed", body["target_status"])
	assert.Contains(t, body, "allowed_transitions")

	err = ledger.CheckInvoiceTransition("draft", "bogus")
	w = render(err)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, apperr.CodeInvalidStatus, body["error"])
	assert.Len(t, body["valid_statuses"], len(ledger.InvoiceStatuses()))
}

func TestRespondErrorSentinels(t *testing.T) {
	cases := []struct {
		err  error
		code int
		name string
	}{
		{apperr.ErrNotFound, http.StatusNotFound, "not_found"},
		{apperr.ErrFeeExceedsGross, http.StatusBadRequest, "fee_exceeds_gross"},
		{apperr.ErrAlreadyRefunded, http.StatusConflict, "already_refunded"},
		{apperr.ErrConflict, http.StatusConflict, "conflict"},
		{apperr.ErrTierLimit, http.StatusForbidden, "tier_limit_reached"},
		{apperr.ErrPaymentsUnavailable, http.StatusServiceUnavailable, "payments_unavailable"},
		{fmt.Errorf("%w: bad header", apperr.ErrInvalidSignature), http.StatusBadRequest, "invalid_signature"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := render(tc.err)
			assert.Equal(t, tc.code, w.Code)
			assert.Contains(t, w.Body.String(), `"error":"`+tc.name+`"`)
		})
	}

	w := render(fmt.Errorf("boom"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestMoneyBinding(t *testing.T) {
	type req struct {
		Gross decimal.Decimal     `json:"gross" binding:"money"`
		Buy   decimal.NullDecimal `json:"buy" binding:"omitempty,money"`
	}

	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err.Error())
			return
		}
		c.Status(http.StatusNoContent)
	})

	cases := map[string]int{
		`{"gross":"10.50"}`:              http.StatusNoContent,
		`{"gross":0}`:                    http.StatusNoContent,
		`{"gross":"10.50","buy":"3.25"}`: http.StatusNoContent,
		`{"gross":"10.505"}`:             http.StatusBadRequest,
		`{"gross":"-1"}`:                 http.StatusBadRequest,
		`{"gross":"1","buy":"-0.01"}`:    http.StatusBadRequest,
	}
	for body, code := range cases {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
		assert.Equal(t, code, w.Code, body)
	}
}
