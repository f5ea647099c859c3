package auth

import (
	"net/http"
	"strings"

	api "github.com/talentflow/talentflow/api/v1alpha1"
)

type HeaderAuthenticator struct {
	header string
}

func NewHeaderAuthenticator() *HeaderAuthenticator {
	return &HeaderAuthenticator{header: api.ActorHeader}
}

func (h *HeaderAuthenticator) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username := strings.TrimSpace(r.Header.Get(h.header))
		if username == "" {
			username = DefaultUsername
		}

		ctx := NewUserContext(r.Context(), User{Username: username})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
