package validator

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// mailShape is deliberately loose: something@something.something
	mailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// dialPhone: optional +, leading 1-9, 8 to 15 digits
	dialPhone = regexp.MustCompile(`^\+?[1-9]\d{7,14}$`)
	seatID    = regexp.MustCompile(`^[A-Z][1-9]\d{0,2}$`)
	showDate  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	showTime  = regexp.MustCompile(`^\d{2}:\d{2}(:\d{2})?$`)
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

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

func registerCustomValidations() {
	_ = validate.RegisterValidation("mailshape", matches(mailShape))
	_ = validate.RegisterValidation("dialphone", matches(dialPhone))
	_ = validate.RegisterValidation("seat", matches(seatID))
	_ = validate.RegisterValidation("showdate", matches(showDate))
	_ = validate.RegisterValidation("showtime", matches(showTime))
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": err.Error()}
	}

	errors := make(map[string]string)
	for _, err := range verrs {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "mailshape", "email":
			errors[field] = "Please enter a valid email address"
		case "dialphone":
			errors[field] = "Please enter a valid phone number (e.g. +6281234567890)"
		case "seat":
			errors[field] = "Invalid seat identifier"
		case "showdate":
			errors[field] = "Date must be YYYY-MM-DD"
		case "showtime":
			errors[field] = "Time must be HH:MM"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "gt":
			errors[field] = "Value must be greater than " + err.Param()
		case "url":
			errors[field] = "Invalid URL format"
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
