package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/talentflow/talentflow/pkg/requestid"
)

// RequestID takes the id from the X-Request-Id header, falls back to the one
// chi generated, and finally to a fresh uuid. The id is echoed on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestid.Header)

		if requestID == "" {
			requestID = middleware.GetReqID(r.Context())
		}

		if requestID == "" {
			requestID = requestid.Generate()
		}

		w.Header().Set(requestid.Header, requestID)
		r = r.WithContext(requestid.ToContext(r.Context(), requestID))

		next.ServeHTTP(w, r)
	})
}
