package handler

import (
	"reflect"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"reseller-ledger-backend/internal/services/ledger"
)

var registerOnce sync.Once

// RegisterValidators teaches gin's validator about decimal amounts and adds
// the "money" tag: non-negative with at most two fractional digits.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterCustomTypeFunc(decimalString, decimal.Decimal{}, decimal.NullDecimal{})
		_ = v.RegisterValidation("money", validMoney)
	})
}

func decimalString(field reflect.Value) interface{} {
	switch d := field.Interface().(type) {
	case decimal.Decimal:
		return d.String()
	case decimal.NullDecimal:
		if !d.Valid {
			return ""
		}
		return d.Decimal.String()
	}
	return nil
}

func validMoney(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return ledger.ValidAmount(d)
}
