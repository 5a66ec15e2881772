package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
)

const (
	instrumentationName = "github.com/coder/jailclean/audit"
	serviceName         = "jailclean"
)

// OTelAuditor exports audit events as OpenTelemetry log records.
type OTelAuditor struct {
	provider *sdklog.LoggerProvider
	logger   otellog.Logger
	slog     *slog.Logger
}

// NewOTelAuditor creates an OTelAuditor exporting to the OTLP/HTTP logs
// endpoint at endpointURL, e.g. "http://localhost:4318/v1/logs".
func NewOTelAuditor(ctx context.Context, logger *slog.Logger, endpointURL string) (*OTelAuditor, error) {
	exporter, err := otlploghttp.New(ctx, otlploghttp.WithEndpointURL(endpointURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP log exporter: %w", err)
	}
	return NewOTelAuditorWithExporter(logger, exporter), nil
}

// NewOTelAuditorWithExporter creates an OTelAuditor on top of exporter.
func NewOTelAuditorWithExporter(logger *slog.Logger, exporter sdklog.Exporter) *OTelAuditor {
	res := resource.NewSchemaless(attribute.String("service.name", serviceName))
	provider := sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		// One record per invocation; export it before the process exits.
		sdklog.WithProcessor(sdklog.NewSimpleProcessor(exporter)),
	)
	return &OTelAuditor{
		provider: provider,
		logger:   provider.Logger(instrumentationName),
		slog:     logger,
	}
}

// AuditEvent emits ev as a log record.
func (a *OTelAuditor) AuditEvent(ev Event) {
	var rec otellog.Record
	ts := ev.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	rec.SetTimestamp(ts)
	rec.SetObservedTimestamp(time.Now())
	rec.AddAttributes(
		otellog.String("jailclean.invocation_id", ev.InvocationID),
		otellog.String("jailclean.op", ev.Op),
		otellog.String("jailclean.jail", ev.Jail),
	)
	if ev.Target != "" {
		rec.AddAttributes(otellog.String("jailclean.target", ev.Target))
	}
	if ev.Succeeded {
		rec.SetSeverity(otellog.SeverityInfo)
		rec.SetSeverityText("INFO")
		rec.SetBody(otellog.StringValue(ev.Op + " succeeded"))
	} else {
		rec.SetSeverity(otellog.SeverityError)
		rec.SetSeverityText("ERROR")
		rec.SetBody(otellog.StringValue(ev.Op + " failed"))
		rec.AddAttributes(otellog.String("jailclean.error", ev.Error))
	}
	a.logger.Emit(context.Background(), rec)
}

// Close flushes pending records and shuts the exporter down.
func (a *OTelAuditor) Close(ctx context.Context) error {
	if err := a.provider.Shutdown(ctx); err != nil {
		a.slog.Warn("Failed to shut down OTLP log exporter", "error", err)
		return err
	}
	return nil
}
