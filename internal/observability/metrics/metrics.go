package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	importRowsParsed metric.Int64Counter
	importRowStates  metric.Int64Counter
	invitesDispatch  metric.Int64Counter
	subTransitions   metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "leavehub"
	}
	meter := provider.Meter(name)

	importRowsParsed, err := meter.Int64Counter("leavehub_import_rows_parsed_total")
	if err != nil {
		return nil, err
	}
	importRowStates, err := meter.Int64Counter("leavehub_import_row_validations_total")
	if err != nil {
		return nil, err
	}
	invitesDispatch, err := meter.Int64Counter("leavehub_import_invites_total")
	if err != nil {
		return nil, err
	}
	subTransitions, err := meter.Int64Counter("leavehub_subscription_transitions_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		importRowsParsed: importRowsParsed,
		importRowStates:  importRowStates,
		invitesDispatch:  invitesDispatch,
		subTransitions:   subTransitions,
	}, nil
}

// RecordRowsParsed counts rows kept by the spreadsheet parser.
func (m *Metrics) RecordRowsParsed(ctx context.Context, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.importRowsParsed.Add(ctx, int64(count))
}

// RecordRowValidation counts a terminal validation state (valid, invalid, skip).
func (m *Metrics) RecordRowValidation(ctx context.Context, state string) {
	if m == nil {
		return
	}
	m.importRowStates.Add(ctx, 1, metric.WithAttributes(
		attribute.String("state", strings.TrimSpace(state)),
	))
}

// RecordInviteOutcome counts a dispatch outcome (invited, failed, skipped).
func (m *Metrics) RecordInviteOutcome(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.invitesDispatch.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", strings.TrimSpace(outcome)),
	))
}

// RecordSubscriptionTransition counts derived subscription status changes.
func (m *Metrics) RecordSubscriptionTransition(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.subTransitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", strings.TrimSpace(status)),
	))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	endpoint = strings.TrimSpace(endpoint)
	switch strings.ToLower(strings.TrimSpace(protocol)) {
	case "", "grpc":
		return otlpmetricgrpc.New(context.Background(),
			otlpmetricgrpc.WithEndpoint(endpoint),
			otlpmetricgrpc.WithInsecure(),
		)
	case "http", "http/protobuf":
		return otlpmetrichttp.New(context.Background(),
			otlpmetrichttp.WithEndpoint(endpoint),
			otlpmetrichttp.WithInsecure(),
		)
	default:
		return nil, fmt.Errorf("unsupported otlp protocol %q", protocol)
	}
}
