package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// nationalIDValidator accepts the 10-digit national ID format used across the
// loan, buyer, and creditor records.
func nationalIDValidator(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	if len(id) != 10 {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// RegisterCustomValidators attaches the custom binding validators to gin's
// validator engine. Called once at startup.
func RegisterCustomValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("nationalid", nationalIDValidator)
}
