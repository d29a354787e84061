package session

import (
	"strings"
	"time"

	"taskdeck/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

// The backend signs its tokens; the client only needs to read public claims.
// Verification stays server-side, so parsing here is unverified on purpose.

// RoleFromToken recovers the role claim when the login response omits one.
func RoleFromToken(token string) (model.Role, bool) {
	claims := decode(token)
	if claims == nil {
		return "", false
	}
	role, _ := claims["role"].(string)
	switch model.Role(strings.TrimSpace(role)) {
	case model.RoleAdmin:
		return model.RoleAdmin, true
	case model.RoleUser:
		return model.RoleUser, true
	}
	return "", false
}

// Expired reports whether the token carries an exp claim in the past.
// Tokens without a readable exp claim are treated as live; the server is the
// authority and will still reject them with a 401.
func Expired(token string) bool {
	claims := decode(token)
	if claims == nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

func decode(token string) jwt.MapClaims {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	return claims
}
