package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/honeynil/FinanceService/internal/api"
	"github.com/honeynil/FinanceService/internal/config"
	"github.com/honeynil/FinanceService/internal/handler"
	"github.com/honeynil/FinanceService/internal/infrastructure/auth"
	"github.com/honeynil/FinanceService/internal/infrastructure/kafka"
	"github.com/honeynil/FinanceService/internal/infrastructure/redis"
	"github.com/honeynil/FinanceService/internal/migrations"
	"github.com/honeynil/FinanceService/internal/observability"
	"github.com/honeynil/FinanceService/internal/repository/cached"
	core "github.com/honeynil/FinanceService/internal/repository/postgres"
	service "github.com/honeynil/FinanceService/internal/services"
	_ "github.com/lib/pq"
)

func main() {
	cfg := config.Load()

	shutdownTracing, metricsHandler := observability.Setup("finance-service", cfg.OTLPEndpoint)
	defer shutdownTracing(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		slog.Error("failed to open postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		slog.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}

	if cfg.MigrationsEnabled {
		if err := migrations.Run(db); err != nil {
			slog.Error("failed to migrate schema", "error", err)
			os.Exit(1)
		}
	}

	redisClient, err := redis.NewClient(ctx, redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	if err != nil {
		os.Exit(1)
	}
	defer redisClient.Close()

	producer := kafka.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()

	entryRepo := cached.NewEntryRepository(core.NewPostgresEntryRepository(db), redisClient, cfg.EntryCacheTTL)
	userRepo := core.NewPostgresUserRepository(db)

	entrySvc := service.NewEntryService(entryRepo)
	userSvc := service.NewUserService(userRepo, producer, 0)
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL, redisClient)

	importer := kafka.NewConsumer(cfg.KafkaBrokers, kafka.EntriesImportTopic, cfg.KafkaGroupID, entrySvc)
	defer importer.Close()
	go importer.Consume(ctx)

	h := handler.NewHandler(entrySvc, userSvc, tokens)
	router := api.SetupRouter(h, auth.AuthMiddleware(tokens), metricsHandler)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		slog.Info("starting server", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
	slog.Info("server stopped")
}
