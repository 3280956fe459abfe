package handler_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Sagar31658/vidtube/internal/handler"
	"github.com/Sagar31658/vidtube/internal/media"
	"github.com/Sagar31658/vidtube/internal/model"
	"github.com/Sagar31658/vidtube/internal/repository"
	"github.com/Sagar31658/vidtube/internal/router"
	"github.com/Sagar31658/vidtube/internal/service"
	"github.com/Sagar31658/vidtube/internal/token"
	"github.com/Sagar31658/vidtube/internal/utils"
)

// memStore is a minimal in-memory credential store for handler tests.
type memStore struct {
	nextID uint64
	users  map[uint64]*model.User
}

func (m *memStore) Create(_ context.Context, u *model.User) (uint64, error) {
	for _, ex := range m.users {
		if ex.Username == strings.ToLower(u.Username) || ex.Email == strings.ToLower(u.Email) {
			return 0, repository.ErrAccountExists
		}
	}
	m.nextID++
	cp := *u
	cp.ID = m.nextID
	cp.Username = strings.ToLower(u.Username)
	cp.Email = strings.ToLower(u.Email)
	m.users[cp.ID] = &cp
	return cp.ID, nil
}

func (m *memStore) GetByUsernameOrEmail(_ context.Context, username, email string) (*model.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range m.users {
		if (username != "" && u.Username == username) || (email != "" && u.Email == email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) GetByID(_ context.Context, id uint64) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) UpdateRefreshToken(_ context.Context, id uint64, digest string) error {
	if u, ok := m.users[id]; ok {
		u.RefreshToken = sql.NullString{String: digest, Valid: digest != ""}
	}
	return nil
}

func (m *memStore) UpdatePassword(_ context.Context, id uint64, hash string) error {
	if u, ok := m.users[id]; ok {
		u.PasswordHash = hash
	}
	return nil
}

type memUploader struct{}

func (memUploader) Upload(_ context.Context, f media.File) (string, error) {
	return "https://cdn.test/" + f.Name, nil
}

func newTestServer(t *testing.T) (*echo.Echo, *memStore) {
	t.Helper()
	store := &memStore{users: map[uint64]*model.User{}}
	tokens := token.NewService(token.Config{
		AccessSecret:  "handler-access",
		RefreshSecret: "handler-refresh",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	})
	sessions := service.NewSession(store, tokens, memUploader{}, bcrypt.MinCost)
	a := handler.NewAuthHandler(sessions)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, a, tokens)
	return e, store
}

func seedUser(t *testing.T, store *memStore, username, email, password string) uint64 {
	t.Helper()
	hash, err := utils.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	id, err := store.Create(context.Background(), &model.User{
		Username: username, FullName: "Seeded User", Email: email,
		PasswordHash: hash, Avatar: "https://cdn.test/a.png",
	})
	require.NoError(t, err)
	return id
}

func postJSON(e *echo.Echo, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func cookieByName(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	res := &http.Response{Header: rec.Header()}
	for _, ck := range res.Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func TestLogin_SetsCookiePair(t *testing.T) {
	t.Parallel()
	e, store := newTestServer(t)
	seedUser(t, store, "alice", "alice@x.com", "Secret123!")

	rec := postJSON(e, "/v1/users/login", `{"username":"alice","password":"Secret123!"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for _, name := range []string{"accessToken", "refreshToken"} {
		ck := cookieByName(t, rec, name)
		require.True(t, ck.HttpOnly, "%s must be http-only", name)
		require.True(t, ck.Secure, "%s must be secure", name)
		require.NotEmpty(t, ck.Value)
	}

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			User map[string]any `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body.Success)
	require.NotContains(t, body.Data.User, "passwordHash")
	require.NotContains(t, body.Data.User, "refreshToken")
}

func TestLogin_ErrorMapping(t *testing.T) {
	t.Parallel()
	e, store := newTestServer(t)
	seedUser(t, store, "alice", "alice@x.com", "Secret123!")

	rec := postJSON(e, "/v1/users/login", `{"password":"x"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code, "no identifier")

	rec = postJSON(e, "/v1/users/login", `{"username":"ghost","password":"x"}`)
	require.Equal(t, http.StatusNotFound, rec.Code, "unknown account")

	rec = postJSON(e, "/v1/users/login", `{"username":"alice","password":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code, "bad password")
}

func TestRefresh_FromCookieAndBody(t *testing.T) {
	t.Parallel()
	e, store := newTestServer(t)
	seedUser(t, store, "alice", "alice@x.com", "Secret123!")

	login := postJSON(e, "/v1/users/login", `{"username":"alice","password":"Secret123!"}`)
	require.Equal(t, http.StatusOK, login.Code)
	refresh := cookieByName(t, login, "refreshToken")

	// Cookie-borne refresh rotates and re-sets cookies.
	rec := postJSON(e, "/v1/users/refresh-token", "", refresh)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rotated := cookieByName(t, rec, "refreshToken")
	require.NotEqual(t, refresh.Value, rotated.Value)

	// Body-borne refresh with the rotated token also works.
	rec = postJSON(e, "/v1/users/refresh-token", `{"refreshToken":"`+rotated.Value+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// The rotated-out cookie token is now a replay.
	rec = postJSON(e, "/v1/users/refresh-token", "", refresh)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// No token at all.
	rec = postJSON(e, "/v1/users/refresh-token", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogout_ClearsCookies(t *testing.T) {
	t.Parallel()
	e, store := newTestServer(t)
	seedUser(t, store, "alice", "alice@x.com", "Secret123!")

	login := postJSON(e, "/v1/users/login", `{"username":"alice","password":"Secret123!"}`)
	require.Equal(t, http.StatusOK, login.Code)
	access := cookieByName(t, login, "accessToken")

	rec := postJSON(e, "/v1/users/logout", "", access)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for _, name := range []string{"accessToken", "refreshToken"} {
		ck := cookieByName(t, rec, name)
		require.Empty(t, ck.Value, "%s must be emptied", name)
		require.True(t, ck.MaxAge < 0 || ck.Expires.Before(time.Now()), "%s must be expired", name)
	}

	// Logout requires authentication.
	rec = postJSON(e, "/v1/users/logout", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCurrentUser(t *testing.T) {
	t.Parallel()
	e, store := newTestServer(t)
	seedUser(t, store, "alice", "alice@x.com", "Secret123!")

	login := postJSON(e, "/v1/users/login", `{"username":"alice","password":"Secret123!"}`)
	access := cookieByName(t, login, "accessToken")

	req := httptest.NewRequest(http.MethodGet, "/v1/users/current-user", nil)
	req.AddCookie(access)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "alice", body.Data["username"])
}

func TestResetPassword_Endpoint(t *testing.T) {
	t.Parallel()
	e, store := newTestServer(t)
	seedUser(t, store, "alice", "alice@x.com", "Secret123!")

	login := postJSON(e, "/v1/users/login", `{"username":"alice","password":"Secret123!"}`)
	access := cookieByName(t, login, "accessToken")

	rec := postJSON(e, "/v1/users/reset-password",
		`{"oldPassword":"wrong","newPassword":"New456!"}`, access)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = postJSON(e, "/v1/users/reset-password",
		`{"oldPassword":"Secret123!","newPassword":"Secret123!"}`, access)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(e, "/v1/users/reset-password",
		`{"oldPassword":"Secret123!","newPassword":"New456!"}`, access)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = postJSON(e, "/v1/users/login", `{"username":"alice","password":"New456!"}`)
	require.Equal(t, http.StatusOK, rec.Code)
}
