package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/azizikri/course-commerce/internal/auth"
	"github.com/azizikri/course-commerce/internal/config"
	httphandler "github.com/azizikri/course-commerce/internal/delivery/http"
	"github.com/azizikri/course-commerce/internal/delivery/kafka"
	"github.com/azizikri/course-commerce/internal/lock"
	"github.com/azizikri/course-commerce/internal/metrics"
	"github.com/azizikri/course-commerce/internal/payment"
	"github.com/azizikri/course-commerce/internal/repository"
	"github.com/azizikri/course-commerce/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := initDB(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool, cfg.MigrationsDir, logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	var locker usecase.Locker = lock.NewLocal()
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDatabase(),
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		locker = lock.NewRedis(redisClient, lock.RedisOptions{Prefix: "commerce:lock:", Wait: 5 * time.Second}, logger)
		logger.Info("using redis locks", zap.String("addr", cfg.RedisAddr))
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	store := repository.New(pool)
	gateway := payment.NewGateway(payment.Config{
		ServerKey:     cfg.MidtransServerKey,
		Environment:   cfg.MidtransEnvironment,
		FinishURL:     cfg.MidtransFinishURL,
		Timeout:       cfg.GatewayTimeout(),
		ExpiryMinutes: cfg.ExpiryMinutes(),
	}, logger)

	ledger := usecase.NewCouponLedger(store, logger)
	cart := usecase.NewCartService(store, locker, logger)
	checkout := usecase.NewCheckoutOrchestrator(store, ledger, gateway, locker, usecase.CheckoutConfig{
		OrderPrefix: cfg.OrderIDPrefix,
		Observer:    m,
	}, logger)

	var sink usecase.NotificationSink
	var kafkaClient, retryClient *kgo.Client

	if cfg.EventDriven() {
		brokers := cfg.Brokers()
		kafkaClient, err = newConsumerClient(brokers, cfg.KafkaClientID+"-"+cfg.KafkaInstanceID, cfg.KafkaGroupID, kafka.TopicNotificationRequest)
		if err != nil {
			logger.Fatal("failed to create kafka client", zap.Error(err))
		}

		if err := kafka.EnsureTopics(ctx, kafkaClient, cfg, logger); err != nil {
			logger.Warn("failed to ensure topics", zap.Error(err))
		}

		reconciler := usecase.NewPaymentReconciler(store, ledger, kafka.NewSettledPublisher(kafkaClient), m, logger)
		sink = kafka.NewNotificationQueue(kafkaClient, logger)

		consumer := kafka.NewConsumer(cfg, kafkaClient, reconciler, logger)
		go consumer.Start(ctx)

		retryClient, err = newConsumerClient(brokers, cfg.KafkaClientID+"-retry-"+cfg.KafkaInstanceID, cfg.KafkaRetryGroupID, kafka.TopicNotificationRetry)
		if err != nil {
			logger.Fatal("failed to create retry kafka client", zap.Error(err))
		}
		retryConsumer := kafka.NewConsumer(cfg, retryClient, reconciler, logger)
		go retryConsumer.StartRetry(ctx)
	} else {
		reconciler := usecase.NewPaymentReconciler(store, ledger, nil, m, logger)
		sink = kafka.NewDirectSink(reconciler)
	}

	tokens := auth.NewJWTService(cfg.JWTSecret, cfg.JWTTTL())
	handler := httphandler.NewHandler(cart, checkout, ledger, sink, tokens, httphandler.Options{
		ServerKey:       cfg.MidtransServerKey,
		VerifySignature: cfg.VerifySignature(),
	}, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(httphandler.RequestLogger(logger))
	r.Use(m.Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", metrics.Handler(prometheus.DefaultGatherer))

	handler.Routes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", zap.String("port", cfg.AppPort), zap.Bool("event_driven", cfg.EventDriven()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", zap.Error(err))
	}

	if kafkaClient != nil {
		kafkaClient.Close()
	}
	if retryClient != nil {
		retryClient.Close()
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func initDB(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return pool, nil
}

func newConsumerClient(brokers []string, clientID, groupID string, topics ...string) (*kgo.Client, error) {
	return kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ClientID(clientID),
		kgo.ConsumerGroup(groupID),
		kgo.ConsumeTopics(topics...),
		kgo.DisableAutoCommit(),
	)
}
