package main

import (
	"context"
	"log"
	"net/http"

	_ "tourneyhub/docs" // swagger docs

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"tourneyhub/internal/auth"
	"tourneyhub/internal/cache"
	"tourneyhub/internal/config"
	"tourneyhub/internal/db"
	"tourneyhub/internal/handler"
	appmw "tourneyhub/internal/middleware"
	"tourneyhub/internal/model"
	"tourneyhub/internal/notify"
	"tourneyhub/internal/repository"
	"tourneyhub/internal/router"
	"tourneyhub/internal/service"
	"tourneyhub/internal/session"
)

// @title Tournament Registration API
// @version 1.0
// @description Tournament registration portal: team signup, payment proof review, and admin approval.
// @host localhost:8080
// @BasePath /api
// @schemes http
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(echomw.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Admin{},
		&model.Team{},
		&model.Setting{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}
	db.EnsureLiveTeamIndex(gormDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	adminRepo := repository.NewAdminRepository(gormDB)
	teamRepo := repository.NewTeamRepository(gormDB)
	settingRepo := repository.NewSettingRepository(gormDB)

	// One-time bootstrap runs before the server accepts traffic.
	if err := bootstrap(context.Background(), cfg, adminRepo, settingRepo); err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	sessions := session.NewRedis(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	var notifier notify.Notifier = notify.Noop{}
	if cfg.DiscordWebhookID != "" && cfg.DiscordWebhookToken != "" {
		discord, err := notify.NewDiscord(cfg.DiscordWebhookID, cfg.DiscordWebhookToken)
		if err != nil {
			log.Fatalf("discord notifier init: %v", err)
		}
		notifier = discord
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, adminRepo)
	settingsService := service.NewSettingsService(settingRepo, cacheClient)
	teamService := service.NewTeamService(teamRepo, settingsService, notifier)

	// Initialize handlers
	resolver := appmw.NewSessionResolver(sessions, authService)
	authHandler := handler.NewAuthHandler(authService, sessions)
	teamHandler := handler.NewTeamHandler(teamService, cfg.UploadDir)
	adminHandler := handler.NewAdminHandler(authService, teamService, settingsService, sessions)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	uploadHandler := handler.NewUploadHandler(teamService, cfg.UploadDir)

	// Register routes
	router.Register(
		e,
		resolver,
		authHandler,
		teamHandler,
		adminHandler,
		settingsHandler,
		uploadHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}

// bootstrap seeds the registration flag and, when the admins table is
// empty, the default admin credential.
func bootstrap(ctx context.Context, cfg *config.Config, adminRepo repository.AdminRepository, settingRepo repository.SettingRepository) error {
	if err := settingRepo.SetIfAbsent(ctx, model.SettingRegistrationOpen, "true"); err != nil {
		return err
	}

	count, err := adminRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(cfg.DefaultAdminPassword)
	if err != nil {
		return err
	}
	if err := adminRepo.Create(ctx, &model.Admin{
		Email:        cfg.DefaultAdminEmail,
		PasswordHash: hash,
	}); err != nil {
		return err
	}

	log.Printf("Seeded default admin %s, rotate this credential with cmd/seed", cfg.DefaultAdminEmail)
	return nil
}
