package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/p2p-pledge-backend/internal/pledges"
	"github.com/radieske/p2p-pledge-backend/internal/shared/cache"
	"github.com/radieske/p2p-pledge-backend/internal/shared/config"
	"github.com/radieske/p2p-pledge-backend/internal/shared/db"
	"github.com/radieske/p2p-pledge-backend/internal/shared/kafka"
	"github.com/radieske/p2p-pledge-backend/internal/shared/logger"
	"github.com/radieske/p2p-pledge-backend/internal/shared/metrics"
	"github.com/radieske/p2p-pledge-backend/internal/stats-worker/consumer"
	"github.com/radieske/p2p-pledge-backend/internal/stats-worker/pubsub"
)

const consumerGroup = "stats-worker"

func main() {
	cfg := config.LoadFor("stats-worker")
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	redisClient, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()

	reader := kafka.NewReader(cfg.KafkaBrokers, cfg.TopicPledgeCreated, consumerGroup)
	defer reader.Close()

	agg := pledges.NewAggregator(log, pledges.NewPostgres(pg), pledges.NewRedisStatsCache(redisClient, cfg.StatsCacheTTL))

	proc := &consumer.Processor{
		Log:          log,
		Reader:       reader,
		Stats:        agg,
		Broadcaster:  pubsub.NewRedisBroadcaster(redisClient),
		Channel:      cfg.RedisStatsChannel,
		Retries:      3,
		RetryBackoff: 300 * time.Millisecond,

		OnConsumed:  metrics.WorkerMessages.WithLabelValues("consumed").Inc,
		OnCached:    metrics.WorkerMessages.WithLabelValues("cached").Inc,
		OnBroadcast: metrics.WorkerMessages.WithLabelValues("broadcast").Inc,
		OnError:     func(stage string) { metrics.WorkerMessages.WithLabelValues("error_" + stage).Inc() },
	}
	if cfg.TopicPledgeCreatedDLQ != "" {
		dlq := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicPledgeCreatedDLQ)
		defer dlq.Close()
		proc.DLQ = dlq
	}

	metricsSrv := metrics.NewMetricsServer(cfg.MetricsPort,
		metrics.HealthCheck{Name: "postgres", Fn: pg.PingContext},
		metrics.HealthCheck{Name: "redis", Fn: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }},
		metrics.HealthCheck{Name: "kafka", Fn: func(ctx context.Context) error { return kafka.Ping(ctx, cfg.KafkaBrokers) }},
	)
	go func() {
		log.Info("metrics/health listening", zap.String("addr", metricsSrv.Addr))
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", zap.Error(err))
		}
	}()

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("stats-worker started", zap.String("topic", cfg.TopicPledgeCreated))
	if err := proc.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("processor stopped with error", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = metricsSrv.Shutdown(shutdownCtx)
	log.Info("stats-worker stopped")
}
