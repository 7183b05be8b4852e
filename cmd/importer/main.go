package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/MichalMitros/storefront-importer/cmd/importer/config"
	"github.com/MichalMitros/storefront-importer/internal/handler"
	"github.com/MichalMitros/storefront-importer/internal/platform/metrics"
	"github.com/MichalMitros/storefront-importer/internal/platform/progress"
	"github.com/MichalMitros/storefront-importer/internal/platform/rabbitmq"
	"github.com/MichalMitros/storefront-importer/internal/platform/storage"
	"github.com/MichalMitros/storefront-importer/internal/publisher"
	"github.com/MichalMitros/storefront-importer/internal/quota"
	"github.com/MichalMitros/storefront-importer/internal/rewriter"
	"github.com/MichalMitros/storefront-importer/internal/worker"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't parse log level")
	}
	logger = logger.Level(level)

	amqpConnection, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't open RabbitMQ connection")
	}

	importConn, err := rabbitmq.NewRabbitMQ(amqpConnection, cfg.RabbitMQ.Exchange,
		rabbitmq.WithPrefetch(cfg.WorkerConcurrency))
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't open RabbitMQ channel")
	}

	billingConn, err := rabbitmq.NewRabbitMQ(amqpConnection, cfg.RabbitMQ.Exchange)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't open RabbitMQ channel")
	}

	if err := importConn.DeclareQueue(cfg.RabbitMQ.ImportQueue, cfg.RabbitMQ.ImportQueue); err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't declare import queue")
	}
	if err := billingConn.DeclareQueue(cfg.RabbitMQ.BillingQueue, cfg.RabbitMQ.BillingQueue); err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't declare billing queue")
	}

	pgDB, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't open Postgres connection")
	}

	redisOptions, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't parse Redis URL")
	}
	redisClient := redis.NewClient(redisOptions)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metricsServer := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().
				Err(err).
				Msg("metrics server stopped")
		}
	}()

	db := storage.NewPostgres(pgDB)
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	publishers := func(shop, accessToken string) worker.Publisher {
		return publisher.New(httpClient, shop, accessToken, &logger,
			publisher.WithAPIVersion(cfg.Publisher.APIVersion),
			publisher.WithRetries(cfg.Publisher.RateLimitRetries, cfg.Publisher.RateLimitBaseDelay),
			publisher.WithImageOptions(cfg.Publisher.ImageMaxDimension, cfg.Publisher.ImageJPEGQuality),
		)
	}

	wrk := worker.NewWorker(
		db,
		publishers,
		rewriter.New(cfg.OpenAI.APIKey, &logger,
			rewriter.WithBaseURL(cfg.OpenAI.BaseURL),
			rewriter.WithModel(cfg.OpenAI.Model),
		),
		&logger,
		worker.WithProgress(progress.NewRedis(redisClient, progress.DefaultTTL)),
		worker.WithMetrics(metrics.New(registry)),
	)

	governor := quota.NewGovernor(db, quota.WithLogger(&logger))

	// start consuming and handling messages
	err = handler.NewImportHandler(importConn, wrk, &logger).
		Start(ctx, cfg.RabbitMQ.ImportQueue, cfg.WorkerConcurrency)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't start consuming import commands")
	}

	err = handler.NewBillingHandler(billingConn, governor, &logger).
		Start(ctx, cfg.RabbitMQ.BillingQueue)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't start consuming billing commands")
	}

	logger.Info().
		Int("concurrency", cfg.WorkerConcurrency).
		Msg("storefront importer up and running")

	// handle graceful shutdown and context cancellation
	termChan := make(chan os.Signal, 1)
	signal.Notify(termChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-termChan:
		cancel()
	case <-ctx.Done():
	}

	logger.Info().Msg("graceful shutdown start")

	// wait for consumers to finish in-flight messages
	<-importConn.Done()
	<-billingConn.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	// close connections
	wg := sync.WaitGroup{}
	wg.Add(4)

	go func() {
		defer wg.Done()
		if err := pgDB.Close(); err != nil {
			logger.Error().
				Err(err).
				Msg("can't close Postgres connection")
		}
	}()

	go func() {
		defer wg.Done()
		if err := amqpConnection.Close(); err != nil {
			logger.Error().
				Err(err).
				Msg("can't close RabbitMQ connection")
		}
	}()

	go func() {
		defer wg.Done()
		if err := redisClient.Close(); err != nil {
			logger.Error().
				Err(err).
				Msg("can't close Redis connection")
		}
	}()

	go func() {
		defer wg.Done()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().
				Err(err).
				Msg("can't stop metrics server")
		}
	}()

	wg.Wait()

	logger.Info().Msg("graceful shutdown successful")
}
