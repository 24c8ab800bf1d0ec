package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/baigrayyan/music-recommender/internal/config"
	"github.com/baigrayyan/music-recommender/internal/database"
	"github.com/baigrayyan/music-recommender/internal/dataset"
	"github.com/baigrayyan/music-recommender/internal/handlers"
	"github.com/baigrayyan/music-recommender/internal/logger"
	"github.com/baigrayyan/music-recommender/internal/metrics"
	"github.com/baigrayyan/music-recommender/internal/middleware"
	"github.com/baigrayyan/music-recommender/internal/repository"
	"github.com/baigrayyan/music-recommender/internal/routes"
	"github.com/baigrayyan/music-recommender/internal/services"
)

func main() {
	importOnly := flag.Bool("import", false, "load the CSV dataset into Postgres and exit")
	hashPassword := flag.String("hash-password", "", "print a bcrypt hash for ADMIN_PASSWORD_HASH and exit")
	flag.Parse()

	if *hashPassword != "" {
		hash, err := services.HashPassword(*hashPassword)
		if err != nil {
			fmt.Fprintln(os.Stderr, "hash password:", err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	// =========================
	// LOAD CONFIG
	// =========================
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Init(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// =========================
	// CONNECT DATABASE (OPTIONAL)
	// =========================
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db := connectDatabase(ctx, cfg)
	if db != nil {
		defer func() {
			if err := database.Close(db); err != nil {
				logger.Warn().Err(err).Msg("closing database")
			}
		}()
	}

	var songRepo repository.SongRepository
	if db != nil {
		songRepo = repository.NewSongRepository(db)
	}

	if *importOnly {
		if err := runImport(ctx, cfg, songRepo); err != nil {
			logger.Fatal().Err(err).Msg("import failed")
		}
		return
	}

	// =========================
	// LOAD DATASET
	// =========================
	source, err := datasetSource(cfg, songRepo)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot select dataset source")
	}
	table, err := dataset.Load(ctx, source)
	if err != nil {
		logger.Fatal().Err(err).Str("source", source.Name()).Msg("failed to load dataset")
	}
	metrics.RecordDatasetLoad(table.Len(), table.LoadedAt().Unix())
	store := dataset.NewStore(table)

	// =========================
	// INIT SERVICES & HANDLERS
	// =========================
	contentService := services.NewContentBasedService(store)
	authService := services.NewAuthService(cfg)

	var writer services.SongWriter
	if songRepo != nil {
		writer = songRepo
	}
	datasetService := services.NewDatasetService(store, source, writer)

	recommendationHandler := handlers.NewRecommendationHandler(contentService, cfg.DefaultRecommendations, cfg.MaxRecommendations)
	songHandler := handlers.NewSongHandler(contentService, cfg.MaxRecommendations)
	adminHandler := handlers.NewAdminHandler(authService, datasetService)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.Run(10*time.Minute, ctx.Done())

	router, err := routes.SetupRoutes(cfg, recommendationHandler, songHandler, adminHandler, authService, limiter)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to set up routes")
	}

	// =========================
	// SERVER CONFIG
	// =========================
	bindAddr := "0.0.0.0:" + cfg.ServerPort
	server := &http.Server{
		Addr:         bindAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("addr", bindAddr).
			Str("env", cfg.Env).
			Str("dataset", source.Name()).
			Msg("music recommender server started")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server error")
			stop()
		}
	}()

	// =========================
	// GRACEFUL SHUTDOWN
	// =========================
	<-ctx.Done()
	logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
	}
	logger.Info().Msg("server exited properly")
}

// connectDatabase returns nil when no database is configured or reachable.
// The CSV source runs without one.
func connectDatabase(ctx context.Context, cfg *config.Config) *gorm.DB {
	if !cfg.DatabaseConfigured() {
		logger.Info().Msg("no database configured, admin import disabled")
		return nil
	}

	db, err := database.ConnectDB(cfg)
	if err != nil {
		logger.Warn().Err(err).Msg("database connection failed, continuing without database")
		return nil
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Warn().Err(err).Msg("database migration failed, continuing without database")
		_ = database.Close(db)
		return nil
	}

	go database.KeepAlive(ctx, db, 5*time.Minute)
	return db
}

func datasetSource(cfg *config.Config, repo repository.SongRepository) (dataset.Source, error) {
	switch cfg.DatasetSource {
	case config.SourcePostgres:
		if repo == nil {
			return nil, errors.New("DATASET_SOURCE=postgres needs a database connection")
		}
		return dataset.RepositorySource{Repo: repo}, nil
	default:
		return dataset.CSVSource{Path: cfg.DatasetPath}, nil
	}
}

func runImport(ctx context.Context, cfg *config.Config, repo repository.SongRepository) error {
	if repo == nil {
		return services.ErrDatabaseUnavailable
	}

	table, err := dataset.Load(ctx, dataset.CSVSource{Path: cfg.DatasetPath})
	if err != nil {
		return err
	}
	n, err := repo.ReplaceAllSongs(ctx, table.Songs())
	if err != nil {
		return err
	}

	logger.Info().Int64("songs", n).Str("path", cfg.DatasetPath).Msg("dataset imported")
	return nil
}
