package auth

import (
	"context"

	jwt "github.com/golang-jwt/jwt/v4"
)

const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

// Claims is the token payload issued on register/login. The uid claim is the
// only user identity the services ever see.
type Claims struct {
	UID      string   `json:"uid"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

type UserInfo struct {
	UID      string
	Username string
	Roles    []string
}

func (u UserInfo) HasRole(role string) bool {
	for i := range u.Roles {
		if u.Roles[i] == role {
			return true
		}
	}
	return false
}

type ctxKey int

const userKey ctxKey = iota + 1

func SetAuthContext(ctx context.Context, user UserInfo) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func FromContext(ctx context.Context) (UserInfo, bool) {
	user, ok := ctx.Value(userKey).(UserInfo)
	return user, ok
}
