package main

import (
	"context"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/ShashkovS/ejapp/config"
	"github.com/ShashkovS/ejapp/db"
	authhandler "github.com/ShashkovS/ejapp/internal/auth/handler"
	"github.com/ShashkovS/ejapp/internal/auth/provider"
	authrepo "github.com/ShashkovS/ejapp/internal/auth/repository/postgres"
	"github.com/ShashkovS/ejapp/internal/auth/service"
	itemhandler "github.com/ShashkovS/ejapp/internal/item/handler"
	itemrepo "github.com/ShashkovS/ejapp/internal/item/repository/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	if err := db.Migrate(cfg.DBURL); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	dbPool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	tokenService, err := service.NewTokenService(cfg.SecretKey, cfg.Algorithm, cfg.AccessTokenExpiry(), cfg.RefreshTokenExpiry())
	if err != nil {
		log.Fatalf("failed to build token service: %v", err)
	}

	userRepo := authrepo.NewPostgresRepository(dbPool)
	userService := service.NewUserService(userRepo, tokenService, provider.NewGoogleStub())
	authHandler := authhandler.NewAuthHandler(userService, tokenService, userRepo)

	itemRepo := itemrepo.NewPostgresRepository(dbPool)
	itemHandler := itemhandler.NewItemHandler(itemRepo)

	app := fiber.New()
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.AllowedOrigins(), ","),
		AllowCredentials: true,
	}))

	authhandler.RegisterRoutes(app, authHandler)
	itemhandler.RegisterRoutes(app, itemHandler, authHandler.RequireAuth)

	log.Printf("listening on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
