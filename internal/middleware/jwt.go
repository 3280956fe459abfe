package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Sagar31658/vidtube/internal/token"
)

// Context keys populated by JWTAuth for downstream handlers.
const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxEmail    = "email"
)

// JWTAuth returns an Echo middleware that authenticates the request
// from a Bearer access token (or the accessToken cookie as a
// fallback) and injects the resolved identity into the context. Any
// verification failure, including expiry, is answered with 401; the
// client is expected to hit the refresh endpoint and retry.
func JWTAuth(tokens *token.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := ""
			if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				raw = strings.TrimPrefix(auth, "Bearer ")
			} else if ck, err := c.Cookie("accessToken"); err == nil {
				raw = ck.Value
			}
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing access token"})
			}

			claims, err := tokens.VerifyAccess(raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid access token"})
			}
			uid, err := claims.UserID()
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid access token"})
			}

			c.Set(CtxUserID, uid)
			c.Set(CtxUsername, claims.Username)
			c.Set(CtxEmail, claims.Email)
			return next(c)
		}
	}
}
