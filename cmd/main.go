package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/scms-platform/auth-service/config"
	"github.com/scms-platform/auth-service/db"
	"github.com/scms-platform/auth-service/internal/auth/handler"
	repo "github.com/scms-platform/auth-service/internal/auth/repository/postgres"
	"github.com/scms-platform/auth-service/internal/auth/service"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	pool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		log.Fatalf("failed to set up database: %v", err)
	}
	defer pool.Close()

	userRepo := repo.NewPostgresRepository(pool)
	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.AccessExpiryMin, cfg.RefreshExpiryMin)
	authService := service.NewAuthService(userRepo, tokenService, service.NewLogNotifier())

	if n, err := authService.PurgeExpiredTokens(ctx); err != nil {
		log.Printf("warn: failed to purge expired blacklist tokens: %v", err)
	} else if n > 0 {
		log.Printf("purged %d expired blacklist tokens", n)
	}

	authHandler := handler.NewAuthHandler(authService)

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler)

	log.Fatal(app.Listen(":" + cfg.Port))
}
