package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/Sagar31658/vidtube/internal/config"
	"github.com/Sagar31658/vidtube/internal/database"
	"github.com/Sagar31658/vidtube/internal/handler"
	"github.com/Sagar31658/vidtube/internal/media"
	"github.com/Sagar31658/vidtube/internal/queue"
	"github.com/Sagar31658/vidtube/internal/repository"
	"github.com/Sagar31658/vidtube/internal/router"
	"github.com/Sagar31658/vidtube/internal/service"
	"github.com/Sagar31658/vidtube/internal/token"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	uploads, err := media.NewStore(context.Background(), cfg.S3)
	if err != nil {
		log.Fatalf("init media store: %v", err)
	}

	tokens := token.NewService(token.Config{
		AccessSecret:  cfg.AccessTokenSecret,
		RefreshSecret: cfg.RefreshTokenSecret,
		AccessTTL:     cfg.AccessTokenExpiry,
		RefreshTTL:    cfg.RefreshTokenExpiry,
	})

	users := repository.NewUserRepo(db)
	sessions := service.NewSession(users, tokens, uploads, cfg.PasswordHashCost)
	auth := handler.NewAuthHandler(sessions)

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; channel response cache disabled")
	}

	go func() {
		if err := queue.StartSignupConsumer(); err != nil {
			log.Printf("signup consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, auth, tokens)
	router.RegisterPublic(e, auth, config.LoadCacheConfig(), rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
