package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apiclient "storefront-api/internal/client"
	"storefront-api/internal/core/auth"
	"storefront-api/internal/core/cache"
	"storefront-api/internal/core/config"
	"storefront-api/internal/core/database"
	"storefront-api/internal/core/logger"
	"storefront-api/internal/core/server"
	"storefront-api/internal/domain"
	"storefront-api/internal/repo"
	"storefront-api/internal/service"
	"storefront-api/internal/transport/http/handler"
	"storefront-api/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(&domain.User{}, &domain.Product{}); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	store := buildCacheStore(cfg, log)
	cacheTTL := time.Duration(cfg.Cache.TTLSec) * time.Second

	users := service.NewUserService(repo.NewUserRepo(db), store, cacheTTL, log)
	products := service.NewProductService(repo.NewProductRepo(db), store, cacheTTL, log)

	external := apiclient.NewJSONPlaceholder(apiclient.Config{
		BaseURL:       cfg.ExternalAPI.BaseURL,
		Timeout:       time.Duration(cfg.ExternalAPI.TimeoutMs) * time.Millisecond,
		RetryAttempts: cfg.ExternalAPI.RetryAttempts,
		RetryDelay:    time.Duration(cfg.ExternalAPI.RetryDelayMs) * time.Millisecond,
		CacheTTL:      time.Duration(cfg.ExternalAPI.CacheTTLSec) * time.Second,
	}, store, log)

	jwter := &auth.JWTer{
		Secret: []byte(cfg.Auth.JWTSecret),
		Issuer: cfg.Auth.Issuer,
		TTL:    time.Duration(cfg.Auth.AccessTokenTTLMin) * time.Minute,
	}

	r := router.New(log, router.Deps{
		Users:    handler.NewUserHandler(users, log),
		Products: handler.NewProductHandler(products, log),
		External: handler.NewExternalHandler(external, log),
		Cache:    handler.NewCacheHandler(store, users, products, external, log),
		Auth:     handler.NewAuthHandler(jwter, cfg.Auth.AdminUser, cfg.Auth.AdminPasswordHash, log),
		JWTer:    jwter,
		Env:      cfg.App.Env,
	})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.Build(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	go func() {
		log.Info("api starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("api start failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("api stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}

func buildCacheStore(cfg *config.Config, l *zap.Logger) cache.Store {
	if !cfg.Cache.Enabled {
		l.Info("cache: in-memory LRU", zap.Int("size", cfg.Cache.MemorySize))
		return cache.NewMemory(cfg.Cache.MemorySize, time.Duration(cfg.Cache.TTLSec)*time.Second)
	}
	rs := cache.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rs.Ping(ctx); err != nil {
		l.Fatal("redis ping", zap.Error(err))
	}
	l.Info("cache: redis", zap.String("addr", cfg.Redis.Addr))
	return rs
}
