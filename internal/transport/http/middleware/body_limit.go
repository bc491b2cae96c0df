package middleware

import (
	"net/http"

	"civitec/internal/platform/requestctx"
	"civitec/internal/transport/http/api"
)

var mutatingMethods = map[string]bool{
	http.MethodPost:  true,
	http.MethodPut:   true,
	http.MethodPatch: true,
}

// BodyLimit caps mutating request bodies at maxBytes. Requests that
// declare an oversize Content-Length are refused up front with the
// JSON envelope; chunked uploads are cut off by MaxBytesReader once
// they cross the limit.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxBytes > 0 && mutatingMethods[r.Method] {
				if r.ContentLength > maxBytes {
					api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large",
						"request body exceeds the allowed size", requestctx.GetRequestID(r.Context()))
					return
				}
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
