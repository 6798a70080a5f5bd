package main

import (
	"context"
	"flag"
	"log"
	"os"

	"tourneyhub/internal/auth"
	"tourneyhub/internal/config"
	"tourneyhub/internal/db"
	"tourneyhub/internal/model"
	"tourneyhub/internal/repository"
)

// Creates or rotates an admin credential. This is the rotation path for
// the default admin the server seeds at first boot.
func main() {
	email := flag.String("email", os.Getenv("ADMIN_EMAIL"), "admin email")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("both -email and -password (or ADMIN_EMAIL / ADMIN_PASSWORD) are required")
	}

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := gormDB.AutoMigrate(&model.Admin{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	adminRepo := repository.NewAdminRepository(gormDB)
	if err := adminRepo.Upsert(context.Background(), &model.Admin{
		Email:        *email,
		PasswordHash: hash,
	}); err != nil {
		log.Fatalf("Failed to upsert admin: %v", err)
	}

	log.Printf("Admin credential set for %s", *email)
}
