package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httpapi "github.com/radieske/p2p-pledge-backend/internal/api/http"
	"github.com/radieske/p2p-pledge-backend/internal/api/ws"
	"github.com/radieske/p2p-pledge-backend/internal/auth"
	"github.com/radieske/p2p-pledge-backend/internal/games"
	"github.com/radieske/p2p-pledge-backend/internal/pledges"
	"github.com/radieske/p2p-pledge-backend/internal/posts"
	"github.com/radieske/p2p-pledge-backend/internal/shared/cache"
	"github.com/radieske/p2p-pledge-backend/internal/shared/config"
	"github.com/radieske/p2p-pledge-backend/internal/shared/db"
	"github.com/radieske/p2p-pledge-backend/internal/shared/kafka"
	"github.com/radieske/p2p-pledge-backend/internal/shared/logger"
	"github.com/radieske/p2p-pledge-backend/internal/shared/metrics"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	// sem segredo não há como emitir tokens
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	log.Info("starting service", zap.String("service", cfg.ServiceName), zap.String("env", cfg.Env))

	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()
	log.Info("postgres connected")

	if cfg.MigrateOnStart {
		version, err := db.MigrateUp(pg)
		if err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
		log.Info("migrations applied", zap.Uint("version", version))
	}

	redisClient, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("failed to connect redis", zap.Error(err))
	}
	defer redisClient.Close()
	log.Info("redis connected")

	// tópicos criados só em ambientes locais; em prod vêm do provisionamento
	if cfg.Env == "local" || cfg.Env == "dev" {
		kctx, kcancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := kafka.EnsureTopics(kctx, cfg.KafkaBrokers, cfg.TopicPledgeCreated, cfg.TopicPledgeCreatedDLQ); err != nil {
			log.Warn("failed to ensure kafka topics", zap.Error(err))
		}
		kcancel()
	}

	writer := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicPledgeCreated)
	defer writer.Close()
	log.Info("kafka writer ready", zap.String("topic", cfg.TopicPledgeCreated))

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Warn("failed to create upload dir", zap.String("dir", cfg.UploadDir), zap.Error(err))
	}

	// credenciais
	tokens, err := auth.NewTokens(cfg.JWTSecret)
	if err != nil {
		log.Fatal("token signer", zap.Error(err))
	}
	authSvc, err := auth.NewService(log, auth.NewPostgres(pg), tokens, cfg.BcryptCost)
	if err != nil {
		log.Fatal("auth service", zap.Error(err))
	}

	// pledges + estatísticas
	pledgeRepo := pledges.NewPostgres(pg)
	agg := pledges.NewAggregator(log, pledgeRepo, pledges.NewRedisStatsCache(redisClient, cfg.StatsCacheTTL))
	pledgeSvc := pledges.NewService(log, pledgeRepo, agg, pledges.NewKafkaPublisher(writer))

	gameSvc := games.NewService(log, games.NewPostgres(pg))
	pipeline := posts.NewPipeline(log, posts.NewPostgres(pg), posts.NewFSStore(cfg.UploadDir), cfg.UploadMaxBytes)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// estatísticas ao vivo: snapshot no subscribe, atualizações via Redis Pub/Sub
	hub := ws.NewHub(log, ws.AllowOrigins(cfg.Env, cfg.WSAllowedOrigins),
		func(ctx context.Context, home, away string) (any, error) {
			st, err := agg.Stats(ctx, home, away)
			if err != nil {
				return nil, err
			}
			return st.View(), nil
		})
	ws.StartRedisSubscriber(ctx, log, redisClient, cfg.RedisStatsChannel, hub)

	api := httpapi.NewServer(log, authSvc, pledgeSvc, gameSvc, pipeline, hub)

	metricsSrv := metrics.NewMetricsServer(cfg.MetricsPort,
		metrics.HealthCheck{Name: "postgres", Fn: pg.PingContext},
		metrics.HealthCheck{Name: "redis", Fn: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }},
		metrics.HealthCheck{Name: "kafka", Fn: func(ctx context.Context) error { return kafka.Ping(ctx, cfg.KafkaBrokers) }},
	)
	go func() {
		log.Info("metrics/health server starting", zap.String("addr", metricsSrv.Addr))
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", zap.Error(err))
		}
	}()

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("pledge-api listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
	_ = metricsSrv.Shutdown(shutdownCtx)
	log.Info("pledge-api stopped")
}
