package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	httphandler "github.com/soylemez/jumboboxd/auth/internal/handler/http"
	"github.com/soylemez/jumboboxd/pkg/discovery"
	"github.com/soylemez/jumboboxd/pkg/discovery/consul"
)

const serviceName = "auth"

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
	logger.Info("Starting the auth service", zap.Int("port", port))

	registry, err := consul.NewRegistry(cfg.ServiceDiscovery.Consul.Address)
	if err != nil {
		logger.Fatal("Failed to init auth service registry", zap.Error(err))
	}
	ctx := context.Background()
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

	h := httphandler.New(func() []byte {
		return []byte(cfg.Auth.Secret)
	}, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", h.HandleToken)
	mux.HandleFunc("/api/identity", h.HandleIdentity)
	if err := http.ListenAndServe(fmt.Sprintf("localhost:%d", port), mux); err != nil {
		logger.Fatal("Failed to serve HTTP", zap.Error(err))
	}
}
