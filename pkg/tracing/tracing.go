package tracing

import (
	"fmt"

	"github.com/opentracing/opentracing-go"
	"github.com/uber/jaeger-client-go/config"
	"github.com/uber/jaeger-lib/metrics"
	"go.uber.org/zap"
)

// NewTracer creates a Jaeger tracer reporting to the given agent host and
// port, logging through the supplied zap logger.
func NewTracer(serviceName, jaegerHost, jaegerPort string, logger *zap.Logger) (opentracing.Tracer, error) {
	cfg := &config.Configuration{
		ServiceName: serviceName,
		Sampler: &config.SamplerConfig{
			Type:  "const",
			Param: 1,
		},
		Reporter: &config.ReporterConfig{
			LogSpans:           true,
			LocalAgentHostPort: fmt.Sprintf("%s:%s", jaegerHost, jaegerPort),
		},
	}

	tracer, _, err := cfg.NewTracer(
		config.Logger(&jaegerLoggerAdapter{logger: logger}),
		config.Metrics(metrics.NullFactory),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Jaeger tracer: %w", err)
	}
	return tracer, nil
}

// jaegerLoggerAdapter adapts a zap logger to the Jaeger logger interface.
type jaegerLoggerAdapter struct {
	logger *zap.Logger
}

func (l *jaegerLoggerAdapter) Error(msg string) {
	l.logger.Error(msg)
}

func (l *jaegerLoggerAdapter) Infof(msg string, args ...interface{}) {
	l.logger.Sugar().Infof(msg, args...)
}
