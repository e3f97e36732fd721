package handler

import (
	"encoding/json"
	"net/http"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	customError "github.com/segyhp/equipment-lease/pkg/errors"
	"github.com/segyhp/equipment-lease/pkg/response"
)

// NewValidator returns a validator that understands decimal.Decimal fields.
// Decimals are validated through their string form.
func NewValidator() *validator.Validate {
	v := validator.New()

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("decimal_gte_zero", decimalRule(func(d decimal.Decimal) bool {
		return !d.IsNegative()
	}))
	_ = v.RegisterValidation("decimal_gt_zero", decimalRule(func(d decimal.Decimal) bool {
		return d.IsPositive()
	}))

	return v
}

func decimalRule(ok func(decimal.Decimal) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		return ok(d)
	}
}

// decodeAndValidate reads a JSON body into dst and runs struct validation.
// It writes the failure response itself and reports whether to continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.Validate, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return false
	}

	if err := v.Struct(dst); err != nil {
		response.FromError(w, customError.WrapValidation(err), true)
		return false
	}
	return true
}
