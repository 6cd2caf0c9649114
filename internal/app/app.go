package app

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/studyplan-backend/internal/data/db"
	"github.com/yungbote/studyplan-backend/internal/http"
	"github.com/yungbote/studyplan-backend/internal/observability"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Clients  *Clients
	Repos    Repos
	Services Services

	shutdownOtel func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if cfg.LogMode != "development" && cfg.LogMode != "" {
		gin.SetMode(gin.ReleaseMode)
	}

	shutdownOtel := observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:     cfg.OtelEnabled,
		ServiceName: cfg.OtelServiceName,
		Environment: cfg.OtelEnvironment,
		Version:     cfg.OtelVersion,
		SampleRatio: cfg.OtelSampleRatio,
		Endpoint:    cfg.OtelEndpoint,
		Headers:     cfg.OtelHeaders,
		Insecure:    cfg.OtelInsecure,
	})

	theDB, err := openDB(log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}
	if err := db.AutoMigrateAll(theDB); err != nil {
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}
	reposet := wireRepos(theDB, log)
	serviceset, err := wireServices(log, cfg, clients, reposet)
	if err != nil {
		clients.Close()
		log.Sync()
		return nil, err
	}
	handlerset := wireHandlers(log, cfg, serviceset)
	middleware := wireMiddleware(log, serviceset)
	router := wireRouter(log, cfg, handlerset, middleware)

	return &App{
		Log:          log,
		DB:           theDB,
		Router:       router,
		Cfg:          cfg,
		Clients:      clients,
		Repos:        reposet,
		Services:     serviceset,
		shutdownOtel: shutdownOtel,
	}, nil
}

func openDB(log *logger.Logger, cfg Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case "sqlite":
		return db.OpenSQLite(cfg.SQLitePath, log)
	default:
		pg, err := db.NewPostgresService(log)
		if err != nil {
			return nil, fmt.Errorf("init postgres: %w", err)
		}
		return pg.DB(), nil
	}
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := net.JoinHostPort("", a.Cfg.Port)
	a.Log.Info("Server listening", "addr", addr)
	srv := &http.Server{Engine: a.Router}
	return srv.Run(ctx, addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Clients != nil {
		a.Clients.Close()
	}
	if a.shutdownOtel != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = a.shutdownOtel(shutdownCtx)
		cancel()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
