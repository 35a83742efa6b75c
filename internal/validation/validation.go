// Package validation holds the request validation error type and the shared
// struct-tag validator used by parameter models.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error indicates that a request is missing required fields or contains invalid data.
type Error struct {
	Fields []FieldError
}

type FieldError struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation error"
	}
	if len(e.Fields) == 1 {
		fe := e.Fields[0]
		if fe.Field == "" {
			return fmt.Sprintf("validation error: %s", fe.Message)
		}
		return fmt.Sprintf("validation error: %s: %s", fe.Field, fe.Message)
	}
	return fmt.Sprintf("validation error: %d fields", len(e.Fields))
}

func (e *Error) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *Error) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// Err returns e as an error, or nil when nothing was added.
func (e *Error) Err() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

// New returns a single-field validation error.
func New(field, message string) *Error {
	return &Error{Fields: []FieldError{{Field: field, Message: message}}}
}

// Valider is implemented by closed enumerations and opaque identifiers.
type Valider interface {
	Valid() bool
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	// "valid" delegates to the field's own Valid method.
	if err := v.RegisterValidation("valid", func(fl validator.FieldLevel) bool {
		f := fl.Field()
		if !f.CanInterface() {
			return false
		}
		vv, ok := f.Interface().(Valider)
		return ok && vv.Valid()
	}); err != nil {
		panic(err)
	}
	return v
}

// Struct validates v against its `validate` tags.
//
// Field paths use the `form` tag names, so they match the wire keys
// (line_items[0].quantity).
func Struct(v any) *Error {
	out := &Error{}
	err := validate.Struct(v)
	if err == nil {
		return out
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out.Add("request", err.Error())
		return out
	}
	for _, fe := range verrs {
		out.Add(fieldPath(fe.Namespace()), message(fe))
	}
	return out
}

func fieldPath(ns string) string {
	// Drop the root struct name.
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		switch fe.Kind() {
		case reflect.Slice, reflect.Array, reflect.Map:
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		case reflect.String:
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		default:
			return fmt.Sprintf("must be >= %s", fe.Param())
		}
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "unique":
		return "must not contain duplicates"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "valid":
		return fmt.Sprintf("unsupported value %q", fmt.Sprint(fe.Value()))
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
