package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func registerCustomValidations() {
	// Listing condition validation
	validate.RegisterValidation("condition", func(fl validator.FieldLevel) bool {
		condition := fl.Field().String()
		validConditions := []string{"new", "like_new", "good", "fair", "poor", ""}
		for _, c := range validConditions {
			if condition == c {
				return true
			}
		}
		return false
	})

	// Wallet operation type validation
	validate.RegisterValidation("wallet_op", func(fl validator.FieldLevel) bool {
		op := fl.Field().String()
		validOps := []string{"CREDIT", "DEBIT", "REFUND"}
		for _, o := range validOps {
			if op == o {
				return true
			}
		}
		return false
	})

	// Event partnership tier validation
	validate.RegisterValidation("event_tier", func(fl validator.FieldLevel) bool {
		tier := fl.Field().String()
		validTiers := []string{"bronze", "silver", "gold", "platinum"}
		for _, t := range validTiers {
			if tier == t {
				return true
			}
		}
		return false
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "email":
			errors[field] = "Invalid email format"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gt":
			errors[field] = "Value must be greater than " + err.Param()
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "url":
			errors[field] = "Invalid URL format"
		case "condition":
			errors[field] = "Invalid condition. Must be: new, like_new, good, fair, or poor"
		case "wallet_op":
			errors[field] = "Invalid operation type. Must be: CREDIT, DEBIT, or REFUND"
		case "event_tier":
			errors[field] = "Invalid tier. Must be: bronze, silver, gold, or platinum"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
