package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("decimalstr", validDecimalString)
	}
}

// validDecimalString accepts any string that parses as an exact decimal
// number. Monetary fields are transported as strings so client-side float
// formatting can never change an amount.
func validDecimalString(fl validator.FieldLevel) bool {
	_, err := decimal.NewFromString(fl.Field().String())
	return err == nil
}
