package jwt

import (
	"errors"
	"time"

	"staybook/model"

	"github.com/golang-jwt/jwt/v5"
)

// Issue signs an HS256 token carrying the sub and role claims that the API
// reads. Production tokens come from the identity service; this is for local
// runs and tests.
func Issue(secret string, p model.Principal, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("empty signing secret")
	}
	claims := jwt.MapClaims{
		"sub":  p.UserID,
		"role": string(p.Role),
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}
