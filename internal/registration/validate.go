// internal/registration/validate.go
//
// Registration – field validation.
//
// Context
//   Validate runs on every submit attempt and returns a fresh FieldErrors map.
//   Fields are checked independently, so one call reports every failing
//   field.  Within a field the rules form an ordered chain and only the first
//   failing rule is reported.  The password chain relies on that: "short" is
//   reported as too short even though it also lacks an uppercase letter, a
//   digit, and a symbol.
//
//   The email pattern is a structural check only (something, "@", something,
//   ".", something).  It is deliberately looser than RFC 5322.
//
//------------------------------------------------------------------------------

package registration

import (
	"regexp"
	"unicode/utf8"
)

// User-facing messages.
const (
	MsgNameRequired      = "Name is required."
	MsgEmailRequired     = "Email is required."
	MsgEmailInvalid      = "Please enter a valid email address."
	MsgPasswordRequired  = "Password is required."
	MsgPasswordLength    = "Password must be at least 8 characters long."
	MsgPasswordUppercase = "Password must contain at least one uppercase letter."
	MsgPasswordDigit     = "Password must contain at least one number."
	MsgPasswordSymbol    = "Password must contain at least one special character (!@#$%^&*)."
)

// MinPasswordLength is measured in characters, not bytes.
const MinPasswordLength = 8

var (
	// Whitespace is the Unicode set (space separators, \v, BOM), not RE2's
	// ASCII-only \s.
	emailPattern = regexp.MustCompile(`[^\s\v\p{Z}\x{FEFF}]+@[^\s\v\p{Z}\x{FEFF}]+\.[^\s\v\p{Z}\x{FEFF}]+`)
	upperPattern = regexp.MustCompile(`[A-Z]`)
	digitPattern = regexp.MustCompile(`[0-9]`)
	// Symbol set is fixed: ! @ # $ % ^ & *
	symbolPattern = regexp.MustCompile(`[!@#$%^&*]`)
)

// -----------------------------------------------------------------------------
// Public API
// -----------------------------------------------------------------------------

// Validate checks values and returns one message per failing field.  An empty
// map means the values may be submitted.  Validate has no side effects.
func Validate(values FieldValues) FieldErrors {
	c := newChecker()

	name := values[FieldName]
	c.check(name != "", FieldName, MsgNameRequired)

	email := values[FieldEmail]
	c.check(email != "", FieldEmail, MsgEmailRequired)
	c.check(emailPattern.MatchString(email), FieldEmail, MsgEmailInvalid)

	pw := values[FieldPassword]
	c.check(pw != "", FieldPassword, MsgPasswordRequired)
	c.check(utf8.RuneCountInString(pw) >= MinPasswordLength, FieldPassword, MsgPasswordLength)
	c.check(upperPattern.MatchString(pw), FieldPassword, MsgPasswordUppercase)
	c.check(digitPattern.MatchString(pw), FieldPassword, MsgPasswordDigit)
	c.check(symbolPattern.MatchString(pw), FieldPassword, MsgPasswordSymbol)

	return c.errs
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

// checker records at most one error per field.  The first failing check for a
// field wins; later checks for that field are ignored.
type checker struct{ errs FieldErrors }

func newChecker() *checker { return &checker{errs: make(FieldErrors, len(Fields))} }

func (c *checker) check(ok bool, field, msg string) {
	if ok {
		return
	}
	if _, seen := c.errs[field]; seen {
		return
	}
	c.errs[field] = msg
}
