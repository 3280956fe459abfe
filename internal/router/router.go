// Package router wires HTTP routes to handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/Sagar31658/vidtube/internal/config"
	"github.com/Sagar31658/vidtube/internal/handler"
	"github.com/Sagar31658/vidtube/internal/middleware"
	"github.com/Sagar31658/vidtube/internal/token"
)

// RegisterRoutes registers routes that need no dependencies.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the user lifecycle routes. Register, login
// and refresh are open; logout, reset-password and current-user sit
// behind the access-token guard.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, tokens *token.Service) {
	g := e.Group("/v1/users")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh-token", a.Refresh)

	secured := e.Group("/v1/users")
	secured.Use(middleware.JWTAuth(tokens))
	secured.POST("/logout", a.Logout)
	secured.POST("/reset-password", a.ResetPassword)
	secured.GET("/current-user", a.CurrentUser)
}

// RegisterPublic registers unauthenticated channel routes, cached in
// Redis when a client is available.
func RegisterPublic(e *echo.Echo, a *handler.AuthHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	e.GET("/v1/users/c/:username", a.Channel, middleware.ChannelCache(cacheCfg, rdb))
}
