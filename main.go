package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/habit-tracker-be/internal/api"
	"github.com/isdelr/habit-tracker-be/internal/auth"
	"github.com/isdelr/habit-tracker-be/internal/config"
	"github.com/isdelr/habit-tracker-be/internal/database"
	"github.com/isdelr/habit-tracker-be/internal/logger"
	"github.com/isdelr/habit-tracker-be/internal/reminders"
	"github.com/isdelr/habit-tracker-be/internal/services"
	"github.com/isdelr/habit-tracker-be/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const tokenTTL = 24 * time.Hour

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "habit-tracker",
		Short:         "Habit tracking REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath)
		},
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(configPath)
		},
	})

	return cmd
}

func setup(configPath string) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogFile)
	return cfg, nil
}

func migrate(configPath string) error {
	cfg, err := setup(configPath)
	if err != nil {
		return err
	}

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}
	log.Info().Str("path", cfg.DatabasePath).Msg("Database schema is up to date")
	return nil
}

func serve(configPath string) error {
	cfg, err := setup(configPath)
	if err != nil {
		return err
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	userService := services.NewUserService(db, cfg.BcryptCost)
	habitService := services.NewHabitService(db, userService)
	completionService := services.NewCompletionService(db)
	notificationService := services.NewNotificationService(db, hub)

	deps := api.Dependencies{
		DB:                  db,
		Hub:                 hub,
		AllowedOrigins:      cfg.AllowedOrigins,
		UserService:         userService,
		HabitService:        habitService,
		CompletionService:   completionService,
		NotificationService: notificationService,
	}

	switch cfg.AuthMode {
	case config.AuthModeJWT:
		tokens := auth.NewJWTResolver(cfg.JWTSecret, tokenTTL)
		deps.Resolver = tokens
		deps.Tokens = tokens
		deps.SecureCookies = cfg.SecureCookies
	default:
		log.Warn().Msg("Identity is taken from the user-id header as-is; set AUTH_MODE=jwt for signed sessions")
		deps.Resolver = auth.HeaderResolver{}
	}

	// Set up the reminder job
	var scheduler *reminders.Scheduler
	if cfg.ReminderCron != "" {
		scheduler = reminders.NewScheduler(cfg.ReminderCron, completionService, notificationService)
		if err := scheduler.Start(); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	serverErr := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Info().Msg("Shutting down server...")
	case err := <-serverErr:
		log.Error().Err(err).Msg("Server failed")
		if scheduler != nil {
			scheduler.Stop()
		}
		hub.Stop()
		return err
	}

	if scheduler != nil {
		scheduler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		hub.Stop()
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	hub.Stop()

	log.Info().Msg("Server exiting")
	return nil
}
