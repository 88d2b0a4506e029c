package middleware

import (
	"net/http"

	"github.com/Adithya-Monish-Kumar-K/linguasearch/pkg/tracing"
)

// Tracing opens a root span for every request, named after the method and
// path and tagged with the request ID assigned by RequestID (Tracing must
// be installed inside the RequestID layer of the chain). The span tree
// built up by handler-level tracing.StartChildSpan calls is logged once the
// request completes.
func Tracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := GetRequestID(r.Context())
		ctx, span := tracing.StartSpan(r.Context(), r.Method+" "+r.URL.Path, requestID)
		span.SetAttr("method", r.Method)
		span.SetAttr("path", r.URL.Path)
		defer func() {
			span.End()
			span.Log()
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
