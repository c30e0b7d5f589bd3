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
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/soylemez/jumboboxd/catalog/internal/controller/catalog"
	jumboboxgateway "github.com/soylemez/jumboboxd/catalog/internal/gateway/jumbobox/http"
	httphandler "github.com/soylemez/jumboboxd/catalog/internal/handler/http"
	"github.com/soylemez/jumboboxd/catalog/internal/repository/memory"
	"github.com/soylemez/jumboboxd/pkg/discovery"
	"github.com/soylemez/jumboboxd/pkg/discovery/consul"
	"github.com/soylemez/jumboboxd/pkg/tracing"
)

const serviceName = "catalog"

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
	logger.Info("Starting the catalog service", zap.Int("port", port))

	registry, err := consul.NewRegistry(cfg.ServiceDiscovery.Consul.Address)
	if err != nil {
		logger.Fatal("Failed to init catalog service registry", zap.Error(err))
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

	gateway := jumboboxgateway.New(cfg.Catalog.UpstreamURL)
	cache := memory.New()
	ctrl := catalog.New(gateway, cache, logger)
	h := httphandler.New(ctrl, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/list", h.HandleList)
	mux.HandleFunc("/api/movie", h.HandleMovie)
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
