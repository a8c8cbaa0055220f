// internal/registration/values.go
//
// Registration – field value and error maps.
//
// Context
//   The registration page collects three inputs.  Candidate values travel from
//   the handler to Validate, and only after Validate returns an empty map do
//   they reach the submission controller.  Both maps are plain string maps so
//   callers can merge, diff, and log them without conversion helpers.
//
//------------------------------------------------------------------------------

package registration

import (
	"net/url"
	"strings"
)

// Field keys.  These are also the HTML input names.
const (
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPassword = "password"
)

// Fields lists every field in page order.
var Fields = []string{FieldName, FieldEmail, FieldPassword}

// FieldValues maps a field key to its candidate value.  A missing key reads as
// the empty string.
type FieldValues map[string]string

// FieldErrors maps a field key to its user-facing error message.  A key is
// present only while that field fails validation.
type FieldErrors map[string]string

// NewFieldValues builds a complete FieldValues from the three inputs.
func NewFieldValues(name, email, password string) FieldValues {
	return FieldValues{
		FieldName:     name,
		FieldEmail:    email,
		FieldPassword: password,
	}
}

// FromForm extracts the registration fields from posted form data.  Unknown
// keys (CSRF token, timestamps) are ignored.  Values are not trimmed; the
// validator judges exactly what the user typed.
func FromForm(posted url.Values) FieldValues {
	out := make(FieldValues, len(Fields))
	for _, f := range Fields {
		out[f] = posted.Get(f)
	}
	return out
}

// Clone returns an independent copy of v.
func (v FieldValues) Clone() FieldValues {
	out := make(FieldValues, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Redacted returns a copy safe to log: the password is masked.
func (v FieldValues) Redacted() map[string]string {
	out := make(map[string]string, len(v))
	for k, val := range v {
		if k == FieldPassword && val != "" {
			val = strings.Repeat("*", 8)
		}
		out[k] = val
	}
	return out
}

// Has reports whether field f currently has an error.
func (e FieldErrors) Has(f string) bool {
	_, ok := e[f]
	return ok
}
