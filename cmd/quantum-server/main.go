package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/quantum5d/quantum5d/internal/config"
	"github.com/quantum5d/quantum5d/internal/domain/analysis"
	"github.com/quantum5d/quantum5d/internal/domain/journey"
	"github.com/quantum5d/quantum5d/internal/domain/patient"
	"github.com/quantum5d/quantum5d/internal/domain/technique"
	"github.com/quantum5d/quantum5d/internal/domain/therapist"
	"github.com/quantum5d/quantum5d/internal/platform/auth"
	"github.com/quantum5d/quantum5d/internal/platform/db"
	"github.com/quantum5d/quantum5d/internal/platform/middleware"
)

// patientFlagAdapter adapts patient.Repository to analysis.PatientFlagger,
// avoiding a construction cycle between the patient and analysis services.
type patientFlagAdapter struct {
	repo patient.Repository
}

func (a *patientFlagAdapter) SetHasAnalysis(ctx context.Context, ident auth.Identity, id uuid.UUID, has bool) error {
	return a.repo.SetHasAnalysis(ctx, ident.UserID, id, has)
}

// patientHeaderAdapter adapts the patient service to journey.PatientSource
// for report rendering.
type patientHeaderAdapter struct {
	svc *patient.Service
}

func (a *patientHeaderAdapter) Header(ctx context.Context, ident auth.Identity, patientID uuid.UUID) (*journey.PatientHeader, error) {
	p, err := a.svc.Get(ctx, ident, patientID)
	if err != nil {
		return nil, err
	}
	return &journey.PatientHeader{
		ID:                 p.ID,
		FullName:           p.FullName,
		CurrentPhaseNumber: p.CurrentPhaseNumber,
		PhaseStartDate:     p.PhaseStartDate,
		HasAnalysis:        p.HasAnalysis,
	}, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "quantum-server",
		Short: "Quantum 5D therapy practice API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
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

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed predefined data",
	}

	techniquesCmd := &cobra.Command{
		Use:   "techniques",
		Short: "Seed the starter technique set for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			userFlag, _ := cmd.Flags().GetString("user")
			userID, err := uuid.Parse(userFlag)
			if err != nil {
				return fmt.Errorf("--user must be a valid UUID: %w", err)
			}

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

			logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
			journeySvc := journey.NewService(journey.NewRepoPG(pool), patient.NewRepoPG(pool), logger)
			svc := technique.NewService(technique.NewRepoPG(pool), journeySvc)

			report, err := svc.Seed(ctx, auth.Identity{UserID: userID})
			if err != nil {
				return fmt.Errorf("seeding failed: %w", err)
			}
			fmt.Printf("Seeded techniques: %d created, %d skipped, %d failed.\n",
				report.Created, report.Skipped, report.Failed)
			for _, e := range report.Errors {
				fmt.Printf("  error: %s\n", e)
			}
			return nil
		},
	}
	techniquesCmd.Flags().String("user", "", "Owner user id (UUID)")
	cmd.AddCommand(techniquesCmd)

	return cmd
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit("1M"))
	e.Use(middleware.RequestTimeout(30 * time.Second))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			Audience:   cfg.AuthAudience,
			JWKSURL:    cfg.AuthJWKSURL,
			SigningKey: []byte(cfg.JWTSecret),
		}))
	}

	apiV1 := e.Group("/api/v1")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// -- Repositories --
	therapistRepo := therapist.NewRepoPG(pool)
	patientRepo := patient.NewRepoPG(pool)
	journeyRepo := journey.NewRepoPG(pool)
	techniqueRepo := technique.NewRepoPG(pool)
	analysisRepo := analysis.NewRepoPG(pool)

	// -- Services --
	// The patient repository doubles as the journey service's phase store.
	journeySvc := journey.NewService(journeyRepo, patientRepo, logger)
	techniqueSvc := technique.NewService(techniqueRepo, journeySvc)
	analysisSvc := analysis.NewService(analysisRepo, &patientFlagAdapter{repo: patientRepo}, journeySvc, logger)
	patientSvc := patient.NewService(patientRepo, journeySvc, techniqueSvc, analysisSvc)
	therapistSvc := therapist.NewService(therapistRepo)

	// -- Handlers --
	therapist.NewHandler(therapistSvc).RegisterRoutes(apiV1)
	patient.NewHandler(patientSvc).RegisterRoutes(apiV1)
	technique.NewHandler(techniqueSvc).RegisterRoutes(apiV1)
	analysis.NewHandler(analysisSvc).RegisterRoutes(apiV1)
	journey.NewHandler(journeySvc, techniqueSvc, &patientHeaderAdapter{svc: patientSvc}).RegisterRoutes(apiV1)

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
