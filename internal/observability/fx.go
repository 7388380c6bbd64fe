package observability

import (
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"

	"github.com/mizanlabs/mizan/internal/observability/metrics"
	"github.com/mizanlabs/mizan/pkg/telemetry"
)

var Module = fx.Module("observability",
	telemetry.Module,
	fx.Provide(metrics.New),
	fx.Invoke(ensureTracingProvider),
)

func ensureTracingProvider(_ *sdktrace.TracerProvider) {}
