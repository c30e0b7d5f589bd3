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

	"github.com/opentracing/opentracing-go"
	"github.com/uber-go/tally/v4"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/soylemez/jumboboxd/pkg/discovery"
	"github.com/soylemez/jumboboxd/pkg/discovery/consul"
	"github.com/soylemez/jumboboxd/pkg/tracing"
	"github.com/soylemez/jumboboxd/review/internal/controller/review"
	authgateway "github.com/soylemez/jumboboxd/review/internal/gateway/auth/http"
	httphandler "github.com/soylemez/jumboboxd/review/internal/handler/http"
	kafkaingester "github.com/soylemez/jumboboxd/review/internal/ingester/kafka"
	kafkapublisher "github.com/soylemez/jumboboxd/review/internal/publisher/kafka"
	"github.com/soylemez/jumboboxd/review/internal/repository/mysql"
)

const serviceName = "review"

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	f, err := os.Open("configs/default.yaml")
	if err != nil {
		logger.Fatal("Failed to open configuration", zap.Error(err))
	}
	var cfg config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		logger.Fatal("Failed to parse configuration", zap.Error(err))
	}
	port := cfg.API.Port
	logger.Info("Starting the review service", zap.Int("port", port))

	registry, err := consul.NewRegistry(cfg.ServiceDiscovery.Consul.Address)
	if err != nil {
		logger.Fatal("Failed to init review service registry", zap.Error(err))
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tracer, err := tracing.NewTracer(serviceName, cfg.Jaeger.Host, cfg.Jaeger.Port, logger)
	if err != nil {
		logger.Fatal("Failed to initialize Jaeger tracer", zap.Error(err))
	}
	opentracing.SetGlobalTracer(tracer)

	instanceID := discovery.GenerateInstanceID(serviceName)
	if err := registry.Register(ctx, instanceID, serviceName, fmt.Sprintf("localhost:%d", port)); err != nil {
		logger.Fatal("Failed to register service", zap.Error(err))
	}
	go func() {
		for {
			if err := registry.ReportHealthyState(instanceID, serviceName); err != nil {
				logger.Error("Failed to report healthy state", zap.Error(err))
			}
			time.Sleep(1 * time.Second)
		}
	}()
	defer registry.Deregister(ctx, instanceID, serviceName)

	repo, err := mysql.New(cfg.MySQL.DSN)
	if err != nil {
		logger.Fatal("Failed to init review repository", zap.Error(err))
	}

	publisher, err := kafkapublisher.NewPublisher(cfg.Kafka.Address, cfg.Kafka.Topic, logger)
	if err != nil {
		logger.Fatal("Failed to init review event publisher", zap.Error(err))
	}
	defer publisher.Close()

	ingester, err := kafkaingester.NewIngester(cfg.Kafka.Address, cfg.Kafka.GroupID, cfg.Kafka.Topic, logger)
	if err != nil {
		logger.Fatal("Failed to init review event ingester", zap.Error(err))
	}

	ctrl := review.New(repo, publisher, ingester, logger)
	if cfg.Kafka.Ingest {
		go func() {
			if err := ctrl.StartIngestion(ctx); err != nil {
				logger.Error("Failed to start ingestion", zap.Error(err))
			}
		}()
	}

	scope, scopeCloser := tally.NewRootScope(tally.ScopeOptions{
		Reporter: tally.NullStatsReporter,
		Tags:     map[string]string{"service": serviceName},
	}, time.Second)
	defer scopeCloser.Close()

	h := httphandler.New(ctrl, authgateway.New(registry), scope, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/review", h.Handle)
	srv := &http.Server{
		Addr:    fmt.Sprintf("localhost:%d", port),
		Handler: mux,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s := <-sigChan
		logger.Info("Received signal, attempting graceful shutdown", zap.Any("signal", s))
		cancel()
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error("Failed to shut down the HTTP server", zap.Error(err))
		}
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("Failed to serve HTTP", zap.Error(err))
	}

	wg.Wait()
}
