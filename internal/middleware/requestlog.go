// internal/middleware/requestlog.go
//
// Access logging.
//
// One structured line per request, written after the handler returns.
// Fields come from requestinfo (client IP, parsed User-Agent, request ID) and
// from a chi WrapResponseWriter that records status and byte count.
// Server errors log at WARN, everything else at INFO.  Long-lived event
// streams log once, when the client disconnects.

package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/yanizio/register/internal/requestinfo"
)

// RequestLog returns access-logging middleware writing to log.
func RequestLog(log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			kv := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"elapsed", time.Since(start).Truncate(time.Microsecond),
			}
			if info := requestinfo.From(r.Context()); info != nil {
				kv = append(kv,
					"request_id", info.ID,
					"ip", info.IP.String(),
					"agent", info.UA.String(),
					"bot", info.UA.IsBot,
				)
			}

			if status >= http.StatusInternalServerError {
				log.Warnw("http request", kv...)
				return
			}
			log.Infow("http request", kv...)
		})
	}
}
