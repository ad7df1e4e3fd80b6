package prettyname

import "github.com/broady/prettyname/namegen/diag"

// Error is a resolution diagnostic. It names the reference as written, the
// shape inferred for it and the rule it violates.
type Error = diag.Error

// ErrorCode is a machine-readable diagnostic code.
type ErrorCode = diag.Code

// Diagnostic codes.
const (
	CodeMalformedReference       = diag.CodeMalformedReference
	CodeSelfOutsideImpl          = diag.CodeSelfOutsideImpl
	CodeAmbiguousOrMissingMember = diag.CodeAmbiguousOrMissingMember
	CodeVariantShapeMismatch     = diag.CodeVariantShapeMismatch
	CodeUnknownIdentifierOrType  = diag.CodeUnknownIdentifierOrType
	CodeGenericArityExceeded     = diag.CodeGenericArityExceeded
)

// CodeOf returns the diagnostic code carried by err, or "" if it has none.
func CodeOf(err error) ErrorCode { return diag.CodeOf(err) }

// IsCode reports whether err carries code.
func IsCode(err error, code ErrorCode) bool { return diag.Is(err, code) }
