package observability

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/honeynil/FinanceService/internal/infrastructure/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Setup wires logs, metrics and traces and returns the tracer shutdown hook
// together with the /metrics handler.
func Setup(serviceName, otlpEndpoint string) (func(context.Context) error, http.Handler) {
	observability.InitLogger(slog.LevelInfo)
	observability.InitMetrics(prometheus.DefaultRegisterer)
	tracerShutdown := observability.InitTracing(serviceName, otlpEndpoint)
	return tracerShutdown, promhttp.Handler()
}
