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
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"

	"github.com/soylemez/jumboboxd/pkg/discovery"
	"github.com/soylemez/jumboboxd/pkg/discovery/consul"
	"github.com/soylemez/jumboboxd/pkg/tracing"
	"github.com/soylemez/jumboboxd/viewer/internal/controller/viewer"
	cataloggateway "github.com/soylemez/jumboboxd/viewer/internal/gateway/catalog/http"
	reviewgateway "github.com/soylemez/jumboboxd/viewer/internal/gateway/review/http"
	httphandler "github.com/soylemez/jumboboxd/viewer/internal/handler/http"
)

const serviceName = "viewer"

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
	logger.Info("Starting the viewer service", zap.Int("port", port))

	registry, err := consul.NewRegistry(cfg.ServiceDiscovery.Consul.Address)
	if err != nil {
		logger.Fatal("Failed to init viewer service registry", zap.Error(err))
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

	ctrl := viewer.New(cataloggateway.New(registry), reviewgateway.New(registry), logger)
	h := httphandler.New(ctrl, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/view", h.HandleView)
	mux.HandleFunc("/view/toggle", h.HandleToggle)
	mux.HandleFunc("/view/rating", h.HandleRating)
	mux.HandleFunc("/view/notes", h.HandleNotes)
	mux.HandleFunc("/view/collections/add", h.HandleCollectionAdd)
	mux.HandleFunc("/view/collections/remove", h.HandleCollectionRemove)
	mux.HandleFunc("/view/reviews", h.HandleReviews)

	const limit = 1000
	const burst = 1000
	l := rate.NewLimiter(rate.Limit(limit), burst)

	srv := &http.Server{
		Addr:    fmt.Sprintf("localhost:%d", port),
		Handler: limitMiddleware(l, mux),
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

func limitMiddleware(l *rate.Limiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if !l.Allow() {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, req)
	})
}
