// Command seed bootstraps the database with an initial admin account so a
// fresh deployment has a login to manage content with.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/courseware-api/internal/models"
	"github.com/noah-isme/courseware-api/internal/repository"
	"github.com/noah-isme/courseware-api/internal/service"
	"github.com/noah-isme/courseware-api/pkg/config"
	"github.com/noah-isme/courseware-api/pkg/database"
)

func main() {
	var (
		email    string
		username string
		password string
		fullName string
	)
	flag.StringVar(&email, "email", "admin@example.com", "admin email")
	flag.StringVar(&username, "username", "admin", "admin username")
	flag.StringVar(&password, "password", "", "admin password (required)")
	flag.StringVar(&fullName, "full-name", "Administrator", "admin display name")
	flag.Parse()

	if password == "" {
		log.Fatal("a password is required: -password")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.Database); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	users := service.NewUserService(repository.NewUserRepository(db), validator.New(), zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := users.Create(ctx, service.CreateUserRequest{
		Email:    email,
		Username: username,
		FullName: fullName,
		Password: password,
		Role:     models.RoleAdmin,
	})
	if err != nil {
		log.Fatalf("failed to create admin: %v", err)
	}

	log.Printf("created admin account id=%d email=%s", user.ID, user.Email)
}
