package tracing

import (
	"fmt"

	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/honeycombio/honeycomb-opentelemetry-go"
	"github.com/honeycombio/otel-config-go/otelconfig"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var GlobalTracer = otel.Tracer("fitsync-backend")

// EndSpanWithErrCheck marks the span as failed when err is set, then ends it.
func EndSpanWithErrCheck(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

type HoneycombSetupParams struct {
	ServiceName string
	// optional, traces from redis commands are added when set
	RedisClient *redis.Client
}

// HoneycombSetup configures the OTel SDK to export to Honeycomb. The API key and
// endpoint come from the usual OTEL_* / HONEYCOMB_API_KEY env vars.
// The returned func flushes and shuts the exporters down.
func HoneycombSetup(params HoneycombSetupParams) (func(), error) {
	// enable multi-span attributes
	bsp := honeycomb.NewBaggageSpanProcessor()

	otelShutdown, err := otelconfig.ConfigureOpenTelemetry(
		otelconfig.WithSpanProcessor(bsp),
		otelconfig.WithServiceName(params.ServiceName),
	)
	if err != nil {
		return nil, fmt.Errorf("configure opentelemetry: %w", err)
	}

	if params.RedisClient != nil {
		params.RedisClient.AddHook(redisotel.NewTracingHook())
	}

	log.Infof("honeycomb tracing set up for service %s", params.ServiceName)
	return otelShutdown, nil
}
