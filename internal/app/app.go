// Package app wires configuration, storage, cache and services into the API
// and admin engines shared by cmd/api and cmd/admin.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"store-rating/internal/core/auth"
	"store-rating/internal/core/cache"
	"store-rating/internal/core/config"
	"store-rating/internal/core/database"
	"store-rating/internal/core/logger"
	"store-rating/internal/core/server"
	"store-rating/internal/repo"
	"store-rating/internal/service"
	"store-rating/internal/transport/http/handler"
	"store-rating/internal/transport/http/router"
)

type App struct {
	Cfg *config.Config
	Log *zap.Logger
	DB  *gorm.DB
	JWT *auth.JWTer

	Users     *service.UserService
	Stores    *service.StoreService
	Ratings   *service.RatingService
	Dashboard *service.DashboardService

	registry *router.Registry
	closers  []func() error
}

// Bootstrap loads .env and the config file, then builds the logger described
// by it. The returned func flushes the logger.
func Bootstrap() (*config.Config, *zap.Logger, func(), error) {
	_ = godotenv.Load()
	cfg, err := config.Load("")
	if err != nil {
		return nil, nil, nil, err
	}
	var (
		l       *zap.Logger
		cleanup func()
	)
	if cfg.Log.File != "" {
		l, cleanup = logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File,
			cfg.Log.MaxSizeMB, cfg.Log.MaxBackups, cfg.Log.MaxAgeDays, cfg.Log.Compress)
	} else {
		l, cleanup = logger.New(cfg.Log.Level, cfg.Log.JSON)
	}
	undo := logger.RedirectStdLog(l, zapcore.InfoLevel)

	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = logger.ToWriter(l, zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(l, zapcore.ErrorLevel)

	return cfg, l, func() { undo(); cleanup() }, nil
}

// New opens storage, migrates when configured, seeds the bootstrap admin and
// builds the services. Close releases what it opened.
func New(ctx context.Context, cfg *config.Config, l *zap.Logger) (*App, error) {
	a := &App{Cfg: cfg, Log: l}

	gormLog, err := logger.ToStdLogger(l.Named("gorm"), zapcore.WarnLevel)
	if err != nil {
		return nil, err
	}
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Writer:             gormLog,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	a.DB = db
	a.closers = append(a.closers, func() error { return database.Close(db) })
	l.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := repo.AutoMigrate(db); err != nil {
			a.Close()
			return nil, fmt.Errorf("automigrate: %w", err)
		}
		l.Info("automigrate done")
	}

	var store cache.Store = cache.Nop{}
	if cfg.Redis.Addr != "" {
		c := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := c.Ping(ctx); err != nil {
			// reads fall back to the database, so a cold redis is not fatal
			l.Warn("redis unreachable, cache degraded", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		store = c
		a.closers = append(a.closers, c.Close)
	}
	ttl := time.Duration(cfg.Cache.TTLSec) * time.Second

	a.JWT = &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}

	users, stores, ratings := repo.NewUserRepo(db), repo.NewStoreRepo(db), repo.NewRatingRepo(db)
	a.Users = service.NewUserService(users, a.JWT, store, l)
	a.Stores = service.NewStoreService(stores, ratings, store, ttl, l)
	a.Ratings = service.NewRatingService(ratings, stores, store, l)
	a.Dashboard = service.NewDashboardService(users, stores, ratings, store, ttl, l)

	if err := a.seedAdmin(ctx); err != nil {
		a.Close()
		return nil, err
	}

	a.registry = router.NewRegistry(
		handler.NewAuthHandler(a.Users),
		handler.NewStoreHandler(a.Stores),
		handler.NewRatingHandler(a.Ratings),
		handler.NewDashboardHandler(a.Dashboard),
		handler.NewAdminHandler(a.Users),
	)
	return a, nil
}

func (a *App) seedAdmin(ctx context.Context) error {
	b := a.Cfg.Bootstrap
	if b.AdminEmail == "" {
		return nil
	}
	created, err := a.Users.EnsureAdmin(ctx, service.SignupInput{
		Name: b.AdminName, Email: b.AdminEmail, Password: b.AdminPassword, Address: b.AdminAddress,
	})
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	if created {
		a.Log.Info("bootstrap admin created", zap.String("email", b.AdminEmail))
	}
	return nil
}

func (a *App) options() router.Options {
	h := a.Cfg.App.HTTP
	return router.Options{
		CORSOrigins:    h.CORSOrigins,
		MaxInFlight:    h.MaxInFlight,
		MaxBodyBytes:   h.MaxBodyMB << 20,
		RequestTimeout: time.Duration(h.RequestTimeoutSec) * time.Second,
	}
}

func (a *App) APIEngine() *gin.Engine {
	return router.NewAPIEngine(a.Log, a.JWT, a.options(), a.registry)
}

func (a *App) AdminEngine() *gin.Engine {
	return router.NewAdminEngine(a.Log, a.JWT, a.options(), a.registry)
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Log.Warn("close failed", zap.Error(err))
		}
	}
	a.closers = nil
}

// Serve runs h on host:port until SIGINT/SIGTERM or ctx is done, then shuts
// down gracefully.
func (a *App) Serve(ctx context.Context, name, host string, port int, h http.Handler) error {
	hc := a.Cfg.App.HTTP
	addr := server.Addr(host, port)
	srv := server.BuildServer(addr, h,
		time.Duration(hc.ReadTimeoutSec)*time.Second,
		time.Duration(hc.WriteTimeoutSec)*time.Second,
		time.Duration(hc.IdleTimeoutSec)*time.Second,
	)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	base := server.HumanURL(host, port)
	a.Log.Info(name+" started",
		zap.String("addr", addr),
		zap.String("open", base),
		zap.String("health", base+"/health"),
	)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("%s listen: %w", name, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("%s shutdown: %w", name, err)
	}
	a.Log.Info(name + " stopped gracefully")
	return nil
}
