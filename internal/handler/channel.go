package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Channel returns the public profile for a username. The route is
// unauthenticated and sits behind the Redis response cache.
func (h *AuthHandler) Channel(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()

	user, err := h.Sessions.Channel(ctx, c.Param("username"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "channel profile", user)
}
