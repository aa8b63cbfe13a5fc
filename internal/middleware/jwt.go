// Package middleware provides the request-processing chain shared by the
// booking routes: bearer-token validation, role enforcement and rate
// limiting.  Access tokens are issued by the platform auth service; this
// engine only verifies them.
package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// JWTAuth validates a Bearer access token and injects the subject and role
// claims into the context under "user_id" and "role".  Requests without a
// valid token are rejected with 401.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := parseBearer(c, secret)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or missing bearer token"})
			}
			c.Set("user_id", claims["sub"])
			c.Set("role", asString(claims["role"]))
			return next(c)
		}
	}
}

// OptionalJWT is JWTAuth for mixed endpoints: guests pass through
// anonymously, while a present-and-valid token still populates the
// identity.  A present-but-invalid token is rejected rather than silently
// downgraded to anonymous.
func OptionalJWT(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get("Authorization") == "" {
				return next(c)
			}
			claims, ok := parseBearer(c, secret)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid bearer token"})
			}
			c.Set("user_id", claims["sub"])
			c.Set("role", asString(claims["role"]))
			return next(c)
		}
	}
}

// parseBearer extracts and verifies the HS256 bearer token, returning its
// claims.
func parseBearer(c echo.Context, secret string) (jwt.MapClaims, bool) {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return nil, false
	}
	raw := strings.TrimPrefix(auth, "Bearer ")
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.ErrUnauthorized
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, false
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	return claims, ok
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}
