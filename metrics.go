package jwtcodec

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "github.com/cybergodev/jwtcodec"

const (
	metricEncodeCount    = "jwtcodec.encode.count"
	metricDecodeCount    = "jwtcodec.decode.count"
	metricDecodeDuration = "jwtcodec.decode.duration"
)

type instruments struct {
	encodes  metric.Int64Counter
	decodes  metric.Int64Counter
	duration metric.Float64Histogram
}

func newInstruments(provider metric.MeterProvider) (*instruments, error) {
	if provider == nil {
		provider = noop.NewMeterProvider()
	}
	meter := provider.Meter(instrumentationName)

	encodes, err := meter.Int64Counter(metricEncodeCount,
		metric.WithDescription("Tokens encoded, by algorithm and outcome."))
	if err != nil {
		return nil, fmt.Errorf("create counter %s: %w", metricEncodeCount, err)
	}

	decodes, err := meter.Int64Counter(metricDecodeCount,
		metric.WithDescription("Tokens decoded, by algorithm, verification mode and outcome."))
	if err != nil {
		return nil, fmt.Errorf("create counter %s: %w", metricDecodeCount, err)
	}

	duration, err := meter.Float64Histogram(metricDecodeDuration,
		metric.WithDescription("Time spent decoding and verifying a token."),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("create histogram %s: %w", metricDecodeDuration, err)
	}

	return &instruments{encodes: encodes, decodes: decodes, duration: duration}, nil
}

// algLabel keeps attacker-controlled "alg" values out of metric attributes.
func algLabel(alg string) string {
	switch {
	case alg == "":
		return "none"
	case Algorithm(alg).Valid():
		return alg
	default:
		return "unsupported"
	}
}

func (m *instruments) recordEncode(ctx context.Context, alg string, err error) {
	m.encodes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("alg", algLabel(alg)),
		attribute.String("outcome", ErrorKind(err)),
	))
}

func (m *instruments) recordDecode(ctx context.Context, alg string, verified bool, err error, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("alg", algLabel(alg)),
		attribute.Bool("verified", verified),
		attribute.String("outcome", ErrorKind(err)),
	)
	m.decodes.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
}
