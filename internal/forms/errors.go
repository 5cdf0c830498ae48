// Package forms holds the admin console's input forms. A form keeps whatever the
// operator typed, hidden fields included; Submit derives the active field groups from
// the discriminants, drops everything outside them and validates what is left.
package forms

import (
	"errors"

	"github.com/go-playground/validator/v10"

	appErr "github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/errors"
)

// checker collects field errors in two tiers. Presence and membership problems are
// reported on their own; content checks only surface once the form is complete.
type checker struct {
	required map[string]string
	sanity   map[string]string
	// based is set when a partial update is checked over the stored record.
	based bool
}

func newChecker() *checker {
	return &checker{required: map[string]string{}, sanity: map[string]string{}}
}

func (c *checker) missing(field, msg string) {
	if _, ok := c.required[field]; !ok {
		c.required[field] = msg
	}
}

func (c *checker) invalid(field, msg string) {
	if _, ok := c.sanity[field]; !ok {
		c.sanity[field] = msg
	}
}

// structure runs the struct tags of v.
func (c *checker) structure(v any) {
	c.collect("", validate.Struct(v))
}

// collect records the field errors in err, each path prefixed with prefix.
func (c *checker) collect(prefix string, err error) {
	if err == nil {
		return
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		c.invalid("form", err.Error())
		return
	}
	for _, fe := range ves {
		if isRequiredTag(fe.Tag()) {
			c.missing(prefix+fieldPath(fe), message(fe))
		} else {
			c.invalid(prefix+fieldPath(fe), message(fe))
		}
	}
}

// value checks a single value against tag and records it under field.
func (c *checker) value(field string, v any, tag string) {
	err := validate.Var(v, tag)
	if err == nil {
		return
	}
	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		if isRequiredTag(ves[0].Tag()) {
			c.missing(field, message(ves[0]))
		} else {
			c.invalid(field, message(ves[0]))
		}
		return
	}
	c.invalid(field, err.Error())
}

func (c *checker) hasMissing() bool { return len(c.required) > 0 }

func (c *checker) err() error {
	if len(c.required) > 0 {
		return appErr.Validation(c.required)
	}
	if len(c.sanity) > 0 {
		return appErr.Validation(c.sanity)
	}
	return nil
}

// Feedback is what the console shows next to a form after a failed submission.
type Feedback struct {
	Fields map[string]string
	Form   string
}

// ApplyServerError maps a failed submission back onto the form. Field-scoped problems
// (backend validation lists, duplicate hints) land in Fields; the rest becomes the
// form-level message. The form values themselves are left untouched for resubmission.
func ApplyServerError(err error) Feedback {
	fb := Feedback{Fields: map[string]string{}}
	if err == nil {
		return fb
	}
	ae, ok := appErr.As(err)
	if !ok {
		fb.Form = err.Error()
		return fb
	}
	for k, v := range ae.Fields {
		fb.Fields[k] = v
	}
	if field, hint, ok := appErr.DuplicateField(ae.Detail); ok {
		if _, set := fb.Fields[field]; !set {
			fb.Fields[field] = hint
		}
	}
	if ae.Code == appErr.CodeValidation && len(fb.Fields) > 0 {
		return fb
	}
	fb.Form = appErr.UserMessage(err)
	return fb
}

func ptr[T any](v T) *T { return &v }
