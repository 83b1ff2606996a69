package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/campuscare/campuscare/internal/config"
	"github.com/campuscare/campuscare/internal/domain/booking"
	"github.com/campuscare/campuscare/internal/domain/dashboard"
	"github.com/campuscare/campuscare/internal/domain/doctor"
	"github.com/campuscare/campuscare/internal/domain/identity"
	"github.com/campuscare/campuscare/internal/domain/patient"
	"github.com/campuscare/campuscare/internal/domain/records"
	"github.com/campuscare/campuscare/internal/jobs"
	"github.com/campuscare/campuscare/internal/platform/auth"
	"github.com/campuscare/campuscare/internal/platform/db"
	"github.com/campuscare/campuscare/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-server",
		Short: "University health clinic API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the clinic API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	revocation := auth.NewTokenRevocationStore()
	defer revocation.Close()

	// Repositories
	userRepo := identity.NewUserRepoPG(pool)
	patientRepo := patient.NewRepoPG(pool)
	doctorRepo := doctor.NewRepoPG(pool)
	bookingRepo := booking.NewRepoPG(pool)
	recordsRepo := records.NewRepoPG(pool)
	dashboardRepo := dashboard.NewRepoPG(pool)

	// Services
	identitySvc := identity.NewService(userRepo, []byte(cfg.AuthSigningKey), time.Duration(cfg.TokenTTLHours)*time.Hour, revocation)
	patientSvc := patient.NewService(patientRepo)
	doctorSvc := doctor.NewService(doctorRepo)
	runTx := func(ctx context.Context, fn func(ctx context.Context) error) error {
		return db.RunInTx(ctx, pool, fn)
	}
	bookingSvc := booking.NewService(bookingRepo, patientSvc, doctorSvc, runTx)
	recordsSvc := records.NewService(recordsRepo)
	dashboardSvc := dashboard.NewService(dashboardRepo)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// Handlers
	identityHandler := identity.NewHandler(identitySvc)
	patientHandler := patient.NewHandler(patientSvc)
	doctorHandler := doctor.NewHandler(doctorSvc)
	bookingHandler := booking.NewHandler(bookingSvc, patientSvc)
	recordsHandler := records.NewHandler(recordsSvc)
	dashboardHandler := dashboard.NewHandler(dashboardSvc, doctorSvc, patientSvc)

	// Public surface: signup, login and the legacy user endpoint.
	identityHandler.RegisterPublicRoutes(e)

	// Authenticated API
	apiV1 := e.Group("/api/v1")
	if cfg.IsDev() && cfg.AuthSigningKey == "" {
		logger.Warn().Msg("AUTH_SIGNING_KEY not set, using dev auth middleware")
		apiV1.Use(auth.DevAuthMiddleware())
	} else {
		apiV1.Use(auth.JWTMiddleware([]byte(cfg.AuthSigningKey), revocation))
	}

	identityHandler.RegisterRoutes(apiV1)
	patientHandler.RegisterRoutes(apiV1)
	doctorHandler.RegisterRoutes(apiV1)
	bookingHandler.RegisterRoutes(apiV1)
	recordsHandler.RegisterRoutes(apiV1)
	dashboardHandler.RegisterRoutes(apiV1)

	// Background jobs
	if cfg.JobsEnabled {
		scheduler := jobs.NewScheduler(doctorRepo, bookingSvc, logger)
		if err := scheduler.Start(); err != nil {
			logger.Fatal().Err(err).Msg("failed to start job scheduler")
		}
		defer scheduler.Stop()
	}

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
