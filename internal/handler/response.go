package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Sagar31658/vidtube/internal/service"
)

// apiResponse is the uniform envelope every endpoint returns.
type apiResponse struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	StatusCode int         `json:"statusCode"`
}

func respond(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, apiResponse{
		Success:    status < 400,
		Message:    message,
		Data:       data,
		StatusCode: status,
	})
}

// respondError maps the session manager's error taxonomy onto HTTP
// status codes. Anything outside the taxonomy is logged and reported
// as a bare 500 so internals never leak to clients.
func respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return respond(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, service.ErrAccountExists):
		return respond(c, http.StatusConflict, "username or email already exists", nil)
	case errors.Is(err, service.ErrNotFound):
		return respond(c, http.StatusNotFound, "account not found", nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		return respond(c, http.StatusUnauthorized, "invalid credentials", nil)
	case errors.Is(err, service.ErrUnauthorized):
		return respond(c, http.StatusUnauthorized, "unauthorized", nil)
	case errors.Is(err, service.ErrUploadFailed):
		return respond(c, http.StatusBadGateway, "media upload failed", nil)
	case errors.Is(err, service.ErrCreationFailed):
		return respond(c, http.StatusInternalServerError, "account creation failed", nil)
	default:
		log.Printf("handler: internal error: %v", err)
		return respond(c, http.StatusInternalServerError, "internal error", nil)
	}
}

const (
	accessCookie  = "accessToken"
	refreshCookie = "refreshToken"
)

// setAuthCookies attaches both tokens as HTTP-only secure cookies. No
// cookie expiry is set; validity is enforced by the tokens' own TTLs.
func setAuthCookies(c echo.Context, access, refresh string) {
	c.SetCookie(&http.Cookie{Name: accessCookie, Value: access, Path: "/", HttpOnly: true, Secure: true})
	c.SetCookie(&http.Cookie{Name: refreshCookie, Value: refresh, Path: "/", HttpOnly: true, Secure: true})
}

// clearAuthCookies empties and immediately expires both cookies.
func clearAuthCookies(c echo.Context) {
	expired := time.Unix(0, 0)
	c.SetCookie(&http.Cookie{Name: accessCookie, Value: "", Path: "/", HttpOnly: true, Secure: true, Expires: expired, MaxAge: -1})
	c.SetCookie(&http.Cookie{Name: refreshCookie, Value: "", Path: "/", HttpOnly: true, Secure: true, Expires: expired, MaxAge: -1})
}
