package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/topspin/topspin-api/internal/analysis"
	"github.com/topspin/topspin-api/internal/config"
	"github.com/topspin/topspin-api/internal/coordination"
	"github.com/topspin/topspin-api/internal/metrics"
	"github.com/topspin/topspin-api/internal/platform/gemini"
	"github.com/topspin/topspin-api/internal/platform/postgres"
	redisstore "github.com/topspin/topspin-api/internal/platform/redis"
	"github.com/topspin/topspin-api/internal/platform/wechat"
	"github.com/topspin/topspin-api/internal/service"
	"github.com/topspin/topspin-api/internal/service/auth"
)

// application holds the wired dependency graph for one server process.
type application struct {
	config   *config.Config
	logger   *slog.Logger
	db       *sql.DB
	redis    *redisstore.Store
	registry *prometheus.Registry
	metrics  *metrics.Metrics

	jwtService      auth.JWTService
	accountService  *service.AccountService
	scoreService    *service.ScoreService
	analysisService *analysis.Service
}

// newApplication builds the full dependency graph: database, coordination
// store, model client, services. Construction fails fast; nothing is wired
// lazily at request time.
func newApplication(ctx context.Context, cfg *config.Config, appLogger *slog.Logger) (*application, error) {
	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		return nil, err
	}

	redisStore, err := redisstore.NewStore(ctx, cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to coordination store: %w", err)
	}

	lockManager, err := coordination.NewLockManager(redisStore)
	if err != nil {
		return nil, err
	}
	taskRegistry, err := coordination.NewTaskRegistry(redisStore)
	if err != nil {
		return nil, err
	}

	promRegistry := prometheus.NewRegistry()
	recorder := metrics.New(promRegistry)

	analyzer, err := gemini.NewVideoAnalyzer(ctx, appLogger, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create video analyzer: %w", err)
	}

	userStore := postgres.NewPostgresUserStore(db)
	scoreStore := postgres.NewPostgresScoreStore(db)

	scoreService, err := service.NewScoreService(scoreStore)
	if err != nil {
		return nil, err
	}

	analysisService, err := analysis.NewService(
		lockManager,
		taskRegistry,
		analyzer,
		scoreService,
		recorder,
		analysis.ServiceConfig{
			LockTTL: cfg.Analysis.LockTTL(),
			TaskTTL: cfg.Analysis.TaskTTL(),
		},
	)
	if err != nil {
		return nil, err
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, err
	}

	wechatClient, err := wechat.NewClient(cfg.WeChat)
	if err != nil {
		return nil, err
	}

	accountService, err := service.NewAccountService(wechatClient, userStore, jwtService)
	if err != nil {
		return nil, err
	}

	return &application{
		config:          cfg,
		logger:          appLogger,
		db:              db,
		redis:           redisStore,
		registry:        promRegistry,
		metrics:         recorder,
		jwtService:      jwtService,
		accountService:  accountService,
		scoreService:    scoreService,
		analysisService: analysisService,
	}, nil
}

// cleanup closes the application's external connections.
func (app *application) cleanup() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("Failed to close coordination store", "error", err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Failed to close database connection", "error", err)
		}
	}
}
