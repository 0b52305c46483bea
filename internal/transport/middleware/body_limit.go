package middleware

import "net/http"

// MaxBodyBytes caps request bodies at limit bytes. A declared Content-Length
// over the limit is rejected with 413 before the handler runs; otherwise the
// body is wrapped in http.MaxBytesReader and reading past the limit fails
// with *http.MaxBytesError, which the REST layer also maps to 413.
func MaxBodyBytes(limit int64) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				writeError(w, http.StatusRequestEntityTooLarge, "request body too large", "body_too_large")
				return
			}
			if r.Body != nil && r.Body != http.NoBody {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
