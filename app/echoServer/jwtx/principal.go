package jwtx

import (
	"errors"
	"strconv"

	"staybook/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const principalKey = "principal"

var ErrNoPrincipal = errors.New("no authenticated principal")

// FromToken reads the caller identity from the sub and role claims.
func FromToken(tok *jwt.Token) (model.Principal, error) {
	if tok == nil {
		return model.Principal{}, errors.New("no jwt token in context")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return model.Principal{}, errors.New("invalid jwt claims")
	}

	var uid int64
	switch sub := claims["sub"].(type) {
	case float64:
		uid = int64(sub)
	case string:
		n, err := strconv.ParseInt(sub, 10, 64)
		if err != nil {
			return model.Principal{}, errors.New("sub is not a user id")
		}
		uid = n
	default:
		return model.Principal{}, errors.New("sub missing in claims")
	}
	if uid <= 0 {
		return model.Principal{}, errors.New("sub is not a user id")
	}

	role, _ := claims["role"].(string)
	switch r := model.Role(role); r {
	case model.RoleCustomer, model.RoleOwner, model.RoleAdmin:
		return model.Principal{UserID: uid, Role: r}, nil
	}
	return model.Principal{}, errors.New("role missing in claims")
}

// Middleware resolves the principal once per request, after echojwt has
// stored the parsed token under "user".
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tok, _ := c.Get("user").(*jwt.Token)
			p, err := FromToken(tok)
			if err != nil {
				c.Logger().Warnf("[AUTH] %v req_id=%s ip=%s", err, c.Response().Header().Get(echo.HeaderXRequestID), c.RealIP())
				return echo.NewHTTPError(401, "unauthorized")
			}
			Set(c, p)
			return next(c)
		}
	}
}

func Set(c echo.Context, p model.Principal) { c.Set(principalKey, p) }

func PrincipalFromContext(c echo.Context) (model.Principal, error) {
	p, ok := c.Get(principalKey).(model.Principal)
	if !ok {
		return model.Principal{}, ErrNoPrincipal
	}
	return p, nil
}
