package forms

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	phoneRegex  = regexp.MustCompile(`^[0-9]{10}$`)
	aadharRegex = regexp.MustCompile(`^[0-9]{12}$`)
	panRegex    = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
)

var validate = newValidator()

// newValidator returns a validator that reports json field names and knows the
// Indian identity formats used by agent and contact forms.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("phone10", validatePhone)
	_ = v.RegisterValidation("aadhar", validateAadhar)
	_ = v.RegisterValidation("pan", validatePAN)
	return v
}

// validatePhone validates a 10 digit phone number
func validatePhone(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

// validateAadhar validates a 12 digit Aadhar number
func validateAadhar(fl validator.FieldLevel) bool {
	return aadharRegex.MatchString(fl.Field().String())
}

// validatePAN validates a PAN in the AAAAA9999A format
func validatePAN(fl validator.FieldLevel) bool {
	return panRegex.MatchString(fl.Field().String())
}

// isRequiredTag reports whether a failed tag is about presence rather than content.
func isRequiredTag(tag string) bool {
	return strings.HasPrefix(tag, "required") || strings.HasPrefix(tag, "excluded")
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if", "required_unless", "required_with", "required_without":
		return "is required"
	case "excluded_if", "excluded_unless", "excluded_with", "excluded_without":
		return "must be empty"
	case "email":
		return "must be a valid email address"
	case "phone10":
		return "must be exactly 10 digits"
	case "aadhar":
		return "must be exactly 12 digits"
	case "pan":
		return "must look like ABCDE1234F"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return "must have at least " + fe.Param() + " entries"
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must have at most " + fe.Param() + " entries"
	default:
		return "is invalid"
	}
}

// fieldPath turns "UnitForm.joint_owners[0].relation" into "joint_owners[0].relation".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// digitsOnly drops the separators people type into phone and Aadhar numbers.
func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}
