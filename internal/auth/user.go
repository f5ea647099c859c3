package auth

import (
	"context"
)

// DefaultUsername is recorded when a call names no actor.
const DefaultUsername = "system"

type userKeyType struct{}

var (
	userKey userKeyType
)

type User struct {
	Username string
}

func UserFromContext(ctx context.Context) (User, bool) {
	val := ctx.Value(userKey)
	if val == nil {
		return User{}, false
	}
	return val.(User), true
}

// UsernameFromContext falls back to DefaultUsername.
func UsernameFromContext(ctx context.Context) string {
	if u, ok := UserFromContext(ctx); ok && u.Username != "" {
		return u.Username
	}
	return DefaultUsername
}

func NewUserContext(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, userKey, u)
}
