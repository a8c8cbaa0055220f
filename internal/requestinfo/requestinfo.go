//
//  internal/requestinfo/requestinfo.go
//
//  Lightweight per-request metadata: parsed User-Agent, client IP, request
//  ID, and arrival time.  The struct is inert.  It holds no handles or large
//  buffers, so it is safe to log or JSON-encode.
//

package requestinfo

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/yanizio/register/internal/ua"
)

// RequestInfo is attached to every request context by Enrich.
type RequestInfo struct {
	ID          string
	IP          net.IP
	UA          ua.Info
	PrimaryLang string // First tag from Accept-Language ("en", "es", ...)
	Timestamp   time.Time
}

type ctxKey struct{}

// From returns the RequestInfo stored by Enrich, or nil.
func From(ctx context.Context) *RequestInfo {
	info, _ := ctx.Value(ctxKey{}).(*RequestInfo)
	return info
}

// Enrich wraps an http.Handler, attaches *RequestInfo, and forwards.  When
// chi's RequestID middleware ran first its ID is reused; otherwise a UUID is
// generated.
func Enrich(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chimw.GetReqID(r.Context())
		if id == "" {
			id = uuid.NewString()
		}
		info := &RequestInfo{
			ID:          id,
			IP:          clientIP(r),
			UA:          ua.Parse(r.UserAgent()),
			PrimaryLang: primaryLang(r.Header.Get("Accept-Language")),
			Timestamp:   time.Now().UTC(),
		}
		ctx := context.WithValue(r.Context(), ctxKey{}, info)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clientIP extracts the left-most parseable address from X-Forwarded-For or
// X-Real-IP, falling back to r.RemoteAddr ("ip:port").
func clientIP(r *http.Request) net.IP {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for _, part := range strings.Split(xff, ",") {
			if ip := net.ParseIP(strings.TrimSpace(part)); ip != nil {
				return ip
			}
		}
	}
	if xrip := r.Header.Get("X-Real-Ip"); xrip != "" {
		if ip := net.ParseIP(strings.TrimSpace(xrip)); ip != nil {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return net.ParseIP(host)
	}
	return net.ParseIP(r.RemoteAddr)
}

// primaryLang returns the base language of the first Accept-Language entry,
// lower-cased ("en-US;q=0.9" → "en").
func primaryLang(header string) string {
	first, _, _ := strings.Cut(header, ",")
	first, _, _ = strings.Cut(first, ";")
	first, _, _ = strings.Cut(strings.TrimSpace(first), "-")
	return strings.ToLower(first)
}
