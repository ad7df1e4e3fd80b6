// Package diag defines the diagnostics produced by the name resolution pipeline.
//
// Every failure is fatal for the reference that caused it: there is no
// fallback name. Diagnostics carry the offending reference verbatim, the shape
// the parser inferred for it and the rule that failed.
package diag

import (
	"errors"
	"fmt"
	"go/token"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Code is a machine-readable diagnostic code.
type Code string

const (
	CodeMalformedReference       Code = "malformed_reference"
	CodeSelfOutsideImpl          Code = "self_outside_impl"
	CodeAmbiguousOrMissingMember Code = "ambiguous_or_missing_member"
	CodeVariantShapeMismatch     Code = "variant_shape_mismatch"
	CodeUnknownIdentifierOrType  Code = "unknown_identifier_or_type"
	CodeGenericArityExceeded     Code = "generic_arity_exceeded"

	// Not produced by the pipeline itself.
	CodeInvalidManifest  Code = "invalid_manifest"
	CodeInvalidDirective Code = "invalid_directive"
	CodeInvalidConfig    Code = "invalid_config"
	CodeLoadFailed       Code = "load_failed"
)

// Error is a single build-time diagnostic.
type Error struct {
	Code Code

	// Reference is the reference text as written, if one was involved.
	Reference string

	// Shape is the reference shape inferred by the parser (e.g. "Type::member(..)").
	Shape string

	Message string

	// Pos is the source location of the reference, if known.
	Pos token.Position

	Details map[string]any
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Pos.IsValid() {
		b.WriteString(e.Pos.String())
		b.WriteString(": ")
	}
	b.WriteString(string(e.Code))
	if e.Reference != "" {
		fmt.Fprintf(&b, ": reference %q", e.Reference)
		if e.Shape != "" {
			fmt.Fprintf(&b, " (%s)", e.Shape)
		}
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	return b.String()
}

// NewError creates a new diagnostic.
func NewError(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Errorf creates a new diagnostic with a formatted message.
func Errorf(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *Error) clone() *Error {
	c := *e
	if e.Details != nil {
		c.Details = make(map[string]any, len(e.Details))
		for k, v := range e.Details {
			c.Details[k] = v
		}
	}
	return &c
}

// WithDetail returns a new Error with the key-value pair added to details.
func (e *Error) WithDetail(key string, value any) *Error {
	c := e.clone()
	if c.Details == nil {
		c.Details = make(map[string]any, 1)
	}
	c.Details[key] = value
	return c
}

// WithReference returns a new Error naming the reference and its shape.
// An existing reference is kept; the deepest layer knows it best.
func (e *Error) WithReference(text, shape string) *Error {
	c := e.clone()
	if c.Reference == "" {
		c.Reference = text
	}
	if c.Shape == "" {
		c.Shape = shape
	}
	return c
}

// WithPos returns a new Error located at pos.
func (e *Error) WithPos(pos token.Position) *Error {
	c := e.clone()
	c.Pos = pos
	return c
}

// CodeOf returns the diagnostic code of err, or "" if err carries none.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}

// FromValidation converts validator errors into a diagnostic with the given
// code. Errors of any other type are wrapped unchanged in the message.
func FromValidation(code Code, subject string, err error) *Error {
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return Errorf(code, "%s: %v", subject, err)
	}
	details := make(map[string]any, len(valErrs))
	messages := make([]string, 0, len(valErrs))
	for _, ve := range valErrs {
		msg := formatValidationError(ve)
		details[ve.Namespace()] = msg
		messages = append(messages, ve.Namespace()+": "+msg)
	}
	return &Error{
		Code:    code,
		Message: subject + ": " + strings.Join(messages, "; "),
		Details: details,
	}
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", ve.Param())
	case "rustident":
		return fmt.Sprintf("%q is not an identifier", ve.Value())
	case "goident":
		return fmt.Sprintf("%q is not a Go identifier", ve.Value())
	case "typeexpr":
		return fmt.Sprintf("%q is not a type expression", ve.Value())
	case "unique":
		return "must not contain duplicates"
	case "endswith":
		return fmt.Sprintf("must end with %q", ve.Param())
	case "excludesall":
		return fmt.Sprintf("must not contain any of %q", ve.Param())
	default:
		if ve.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", ve.Tag(), ve.Param())
		}
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}
