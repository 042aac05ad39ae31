// @title           Livestock Market API
// @version         1.0
// @description     Livestock marketplace backend.
// @description     User registration and login, farmer-owned animal listings with image uploads.

// @contact.name   Ivan Chernomyrdin
// @contact.url    https://github.com/IvanChernomyrdin

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
//
// Package main содержит точку входа сервера Livestock Market.
//
// Порядок запуска:
//   - .env (если есть) и конфиг из -config / CONFIG_PATH;
//   - логгер по секции log;
//   - PostgreSQL и миграции;
//   - хранилище изображений (local или s3);
//   - Redis для отзыва токенов, если он включён;
//   - репозитории, сервисы, middleware, обработчики и роутер;
//   - HTTP(S)-сервер и graceful shutdown по SIGINT/SIGTERM/SIGQUIT.
package main

import (
	"context"
	"crypto/tls"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/IvanChernomyrdin/go-livestock-market/internal/server/api"
	"github.com/IvanChernomyrdin/go-livestock-market/internal/server/config"
	"github.com/IvanChernomyrdin/go-livestock-market/internal/server/middleware"
	srvhttp "github.com/IvanChernomyrdin/go-livestock-market/internal/server/net/http"
	"github.com/IvanChernomyrdin/go-livestock-market/internal/server/repository"
	"github.com/IvanChernomyrdin/go-livestock-market/internal/server/service"
	"github.com/IvanChernomyrdin/go-livestock-market/internal/server/storage"
	"github.com/IvanChernomyrdin/go-livestock-market/internal/shared/logger"

	_ "github.com/IvanChernomyrdin/go-livestock-market/swagger/docs"
)

const defaultConfigPath = "./configs/server.yaml"

func main() {
	boot := logger.NewHTTPLogger().Sugar()

	if err := godotenv.Load(); err != nil {
		boot.Warnf("no .env file loaded, error: %v", err)
	}

	configPath := flag.String("config", envOr("CONFIG_PATH", defaultConfigPath), "path to server.yaml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		boot.Fatal(err)
	}

	log := logger.New(logger.Options{
		File:       cfg.Log.File,
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Stdout:     cfg.Log.Stdout,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	defer log.Sync()
	sugar := log.Sugar()

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	db, err := config.OpenDB(ctx, cfg.DB, cfg.Migrations, log)
	if err != nil {
		sugar.Fatalf("database: %v", err)
	}
	defer db.Close()

	sink, err := storage.New(ctx, cfg.Uploads)
	if err != nil {
		sugar.Fatalf("uploads: %v", err)
	}

	repos := service.Repositories{
		Users:   repository.NewUsersRepository(db),
		Animals: repository.NewAnimalsRepository(db),
		Health:  []service.HealthRepo{repository.NewHealthRepository(db)},
	}

	// отзыв токенов: без Redis Revoked остаётся nil и logout не хранит состояние
	if cfg.Auth.Revocation.Enabled {
		rc := cfg.Auth.Revocation.Redis
		rdb := redis.NewClient(&redis.Options{
			Addr:     rc.Addr,
			Password: rc.Password,
			DB:       rc.DB,
		})
		defer rdb.Close()

		revoked := repository.NewRevokedTokensRepository(rdb, rc.KeyPrefix)
		if err := revoked.Ping(ctx); err != nil {
			sugar.Fatalf("redis: %v", err)
		}
		repos.Revoked = revoked
		repos.Health = append(repos.Health, revoked)
		sugar.Infof("token revocation enabled (redis %s)", rc.Addr)
	}

	svc := service.NewServices(repos, sink, cfg, log)
	verifier := middleware.NewJWTVerifier(svc.Auth, log)

	handler := api.NewHandler(svc, log, verifier, cfg.Uploads.MaxRequestBytes)
	if cfg.Server.MaxBodyBytes > 0 {
		handler.MaxJSONBytes = cfg.Server.MaxBodyBytes
	}

	opts := srvhttp.Options{CORS: cfg.Security.CORS}
	if cfg.Uploads.Serve && strings.EqualFold(cfg.Uploads.Backend, "local") {
		opts.UploadsDir = cfg.Uploads.Dir
	}
	router := srvhttp.NewRouter(handler, opts)

	addr := cfg.Addr()
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		MaxHeaderBytes:    cfg.Server.MaxHeaderBytes,
	}
	if cfg.TLS.Enabled {
		server.TLSConfig = &tls.Config{MinVersion: tlsVersion(cfg.TLS.MinVersion)}
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sugar.Infof("server started on %s (tls=%t)", addr, cfg.TLS.Enabled)

		var err error
		if cfg.TLS.Enabled {
			err = server.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// graceful shutdown с таймаутом из конфига
	g.Go(func() error {
		<-ctx.Done()

		sugar.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(
			context.WithoutCancel(ctx),
			cfg.Server.ShutdownTimeout,
		)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", zap.Error(err))
		os.Exit(1)
	}
	sugar.Info("server gracefully stopped")
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func tlsVersion(v string) uint16 {
	if v == "1.3" {
		return tls.VersionTLS13
	}
	return tls.VersionTLS12
}
