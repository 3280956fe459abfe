package handler

import (
	"context"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Sagar31658/vidtube/internal/media"
	"github.com/Sagar31658/vidtube/internal/middleware"
	"github.com/Sagar31658/vidtube/internal/service"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Sessions *service.Session
}

func NewAuthHandler(s *service.Session) *AuthHandler {
	return &AuthHandler{Sessions: s}
}

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}
type resetPasswordReq struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type tokenPart struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func requestCtx(c echo.Context) (context.Context, context.CancelFunc) {
	// Uploads ride on this context too, so it is looser than a pure DB timeout.
	return context.WithTimeout(c.Request().Context(), 30*time.Second)
}

// mediaFile adapts a multipart part for the upload store. The caller
// must close the returned closer.
func mediaFile(fh *multipart.FileHeader) (*media.File, func(), error) {
	src, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	return &media.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        src,
	}, func() { _ = src.Close() }, nil
}

// Register handles the multipart signup form: text fields plus a
// required "avatar" file and an optional "coverImage" file.
func (h *AuthHandler) Register(c echo.Context) error {
	in := service.RegisterInput{
		Username: c.FormValue("username"),
		FullName: c.FormValue("fullName"),
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
	}

	if fh, err := c.FormFile("avatar"); err == nil {
		f, closeFn, err := mediaFile(fh)
		if err != nil {
			return respond(c, http.StatusBadRequest, "could not read avatar upload", nil)
		}
		defer closeFn()
		in.Avatar = f
	}
	if fh, err := c.FormFile("coverImage"); err == nil {
		f, closeFn, err := mediaFile(fh)
		if err != nil {
			return respond(c, http.StatusBadRequest, "could not read cover upload", nil)
		}
		defer closeFn()
		in.Cover = f
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	user, err := h.Sessions.Register(ctx, in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "user registered", user)
}

// Login verifies credentials and sets the cookie pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "invalid body", nil)
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	res, err := h.Sessions.Login(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	setAuthCookies(c, res.AccessToken, res.RefreshToken)
	return respond(c, http.StatusOK, "logged in", echo.Map{
		"user":         res.User,
		"accessToken":  res.AccessToken,
		"refreshToken": res.RefreshToken,
	})
}

// Logout clears the server-side session and both cookies. Requires a
// valid access token; repeating it is harmless.
func (h *AuthHandler) Logout(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return respond(c, http.StatusUnauthorized, "unauthorized", nil)
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	if err := h.Sessions.Logout(ctx, uid); err != nil {
		return respondError(c, err)
	}
	clearAuthCookies(c)
	return respond(c, http.StatusOK, "logged out", nil)
}

// Refresh rotates the token pair. The refresh token is read from the
// cookie first, then from the JSON body, so both browser and API
// clients work.
func (h *AuthHandler) Refresh(c echo.Context) error {
	presented := ""
	if ck, err := c.Cookie(refreshCookie); err == nil {
		presented = ck.Value
	}
	if presented == "" {
		var req refreshReq
		_ = c.Bind(&req)
		presented = req.RefreshToken
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	pair, err := h.Sessions.Refresh(ctx, presented)
	if err != nil {
		return respondError(c, err)
	}

	setAuthCookies(c, pair.AccessToken, pair.RefreshToken)
	return respond(c, http.StatusOK, "token refreshed", tokenPart{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// ResetPassword changes the password of the authenticated account.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return respond(c, http.StatusUnauthorized, "unauthorized", nil)
	}
	var req resetPasswordReq
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "invalid body", nil)
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	if err := h.Sessions.ResetPassword(ctx, uid, req.OldPassword, req.NewPassword); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "password changed", nil)
}

// CurrentUser returns the authenticated account's public view.
func (h *AuthHandler) CurrentUser(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return respond(c, http.StatusUnauthorized, "unauthorized", nil)
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	user, err := h.Sessions.CurrentUser(ctx, uid)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "current user", user)
}
