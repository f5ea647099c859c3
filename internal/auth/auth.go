// Package auth identifies who performs a call. The emulator trusts the
// caller: the actor is taken from a request header.
package auth

import (
	"net/http"
)

type Authenticator interface {
	Authenticator(next http.Handler) http.Handler
}
