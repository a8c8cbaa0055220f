// internal/form/submit.go
//
// Forms subsystem: request decoding helper.
//
// Context
//   Handlers want one call that parses the POST body and rejects requests
//   that did not come from a rendered form.  Decode provides that so
//   component code stays terse.  Field-level validation is the component's
//   job and happens afterwards.
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// maxFormBytes caps the size of a posted form.
const maxFormBytes = 64 << 10

// ErrBadToken reports a missing, forged, or expired CSRF token.
var ErrBadToken = errors.New("security token invalid")

// Decode parses r's form body and verifies its CSRF token.  It returns the
// posted values, ErrBadToken, or a parse error.
func Decode(w http.ResponseWriter, r *http.Request, tokens *Tokens) (url.Values, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}
	if tok := r.PostForm.Get(TokenField); tok == "" || !tokens.Verify(tok) {
		return nil, ErrBadToken
	}
	return r.PostForm, nil
}

// IsBadToken reports whether err came from a failed CSRF check.
func IsBadToken(err error) bool { return errors.Is(err, ErrBadToken) }
