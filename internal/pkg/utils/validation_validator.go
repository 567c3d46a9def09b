package utils

import (
	"heartshield-service/internal/app/models"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("field_name", validateFieldName)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateFieldName(fl validator.FieldLevel) bool {
	return models.IsKnownFieldName(fl.Field().String())
}
