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

	// Register custom validations
	registerCustomValidations()
}

func registerCustomValidations() {
	// Print style validation
	validate.RegisterValidation("style", func(fl validator.FieldLevel) bool {
		style := fl.Field().String()
		validStyles := []string{"cover", "contain"}
		for _, s := range validStyles {
			if style == s {
				return true
			}
		}
		return false
	})

	// Date stamp anchor validation
	validate.RegisterValidation("anchor", func(fl validator.FieldLevel) bool {
		anchor := fl.Field().String()
		validAnchors := []string{
			"top_left", "top_center", "top_right",
			"bottom_left", "bottom_center", "bottom_right",
			"",
		}
		for _, a := range validAnchors {
			if anchor == a {
				return true
			}
		}
		return false
	})

	// Date stamp size tier validation
	validate.RegisterValidation("size_tier", func(fl validator.FieldLevel) bool {
		tier := fl.Field().String()
		validTiers := []string{"small", "medium", "large", ""}
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
		case "uuid":
			errors[field] = "Invalid identifier format"
		case "hexcolor":
			errors[field] = "Invalid color. Must be a #RRGGBB value"
		case "style":
			errors[field] = "Invalid style. Must be: cover or contain"
		case "anchor":
			errors[field] = "Invalid position. Must be a corner or center anchor"
		case "size_tier":
			errors[field] = "Invalid size tier. Must be: small, medium, or large"
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
