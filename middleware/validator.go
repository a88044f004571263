package middleware

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs `validate` tags on handler input structs.
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}
