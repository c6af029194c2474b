package main

import (
	"context"
	"log"
	"net/http"

	_ "github.com/mrjaiswar/task-app/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/mrjaiswar/task-app/internal/auth"
	"github.com/mrjaiswar/task-app/internal/config"
	"github.com/mrjaiswar/task-app/internal/db"
	"github.com/mrjaiswar/task-app/internal/handler"
	"github.com/mrjaiswar/task-app/internal/mail"
	"github.com/mrjaiswar/task-app/internal/repository"
	"github.com/mrjaiswar/task-app/internal/router"
	"github.com/mrjaiswar/task-app/internal/service"
)

// @title Task Manager API
// @version 1.0
// @description Task Manager API with user accounts, JWT sessions and per-owner tasks.
// @host localhost:3000
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	database, err := db.NewMongo(context.Background(), cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	if err := db.EnsureIndexes(context.Background(), database); err != nil {
		log.Fatalf("ensure indexes: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(database)
	taskRepo := repository.NewTaskRepository(database)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	var mailer mail.Mailer = mail.Noop{}
	if cfg.SendgridAPIKey != "" {
		mailer = mail.NewSendgridMailer(cfg.SendgridAPIKey, cfg.MailFrom, cfg.MailFromName)
	} else {
		log.Println("SENDGRID_API_KEY not set, account mails disabled")
	}

	// Initialize services
	userService := service.NewUserService(userRepo, hasher, jwtService, mailer)
	taskService := service.NewTaskService(taskRepo)

	// Initialize handlers
	userHandler := handler.NewUserHandler(userService)
	taskHandler := handler.NewTaskHandler(taskService)

	// Register routes
	router.Register(e, jwtService, userRepo, userHandler, taskHandler)

	if cfg.SwaggerHost != "" {
		log.Printf("Swagger documentation available at: http://%s/swagger/index.html", cfg.SwaggerHost)
	} else {
		log.Printf("Swagger documentation available at: http://localhost:%s/swagger/index.html", cfg.ServerPort)
	}

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
