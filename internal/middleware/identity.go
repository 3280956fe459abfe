package middleware

import "github.com/labstack/echo/v4"

// UserID pulls the authenticated account id that JWTAuth stored on the
// context. The second return is false for unauthenticated requests.
func UserID(c echo.Context) (uint64, bool) {
	v, ok := c.Get(CtxUserID).(uint64)
	return v, ok
}
