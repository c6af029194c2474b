// Command seed inserts a few sample users and tasks for local development.
// It goes through the same services as the API so passwords are hashed and
// owners are assigned exactly as in production.
package main

import (
	"context"
	"log"

	"github.com/mrjaiswar/task-app/internal/auth"
	"github.com/mrjaiswar/task-app/internal/config"
	"github.com/mrjaiswar/task-app/internal/db"
	"github.com/mrjaiswar/task-app/internal/mail"
	"github.com/mrjaiswar/task-app/internal/repository"
	"github.com/mrjaiswar/task-app/internal/service"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	database, err := db.NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	if err := db.EnsureIndexes(ctx, database); err != nil {
		log.Fatalf("ensure indexes: %v", err)
	}

	userRepo := repository.NewUserRepository(database)
	taskRepo := repository.NewTaskRepository(database)
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	userService := service.NewUserService(userRepo, hasher, jwtService, mail.Noop{})
	taskService := service.NewTaskService(taskRepo)

	seedUsers := []struct {
		name     string
		email    string
		password string
		tasks    []string
	}{
		{"Mike", "mike@example.com", "mikepass123!", []string{"Buy groceries", "Walk the dog"}},
		{"Riju", "riju@example.com", "rijuvijayan", []string{"Write report"}},
	}

	for _, seed := range seedUsers {
		user, _, err := userService.Signup(ctx, seed.name, seed.email, seed.password)
		if err != nil {
			log.Printf("seed user %s: %v", seed.email, err)
			continue
		}
		for _, description := range seed.tasks {
			if _, err := taskService.Create(ctx, user.ID, service.TaskCreate{Description: description}); err != nil {
				log.Printf("seed task for %s: %v", seed.email, err)
			}
		}
		log.Printf("seeded %s with %d tasks", seed.email, len(seed.tasks))
	}
}
