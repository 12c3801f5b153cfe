package otel

import (
	"context"
	"sync"

	eventbus "github.com/hanpama/graphcache/internal/eventbus"
	events "github.com/hanpama/graphcache/internal/events"
	reqid "github.com/hanpama/graphcache/internal/reqid"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Setup configures OpenTelemetry and attaches eventbus subscribers.
// If endpoint is empty, no telemetry is configured.
func Setup(endpoint, service string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	exp, err := otlptracegrpc.New(context.Background(),
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(service),
		)),
	)
	otel.SetTracerProvider(tp)

	unsubscribe := Subscribe(otel.Tracer("graphcache"))
	return func(ctx context.Context) error {
		unsubscribe()
		return tp.Shutdown(ctx)
	}, nil
}

// Subscribe records cache reads as spans on tracer: one graphcache.read span
// per read, with a graphcache.connection child per assembled connection.
func Subscribe(tracer trace.Tracer) (unsubscribe func()) {
	s := &subscriber{tracer: tracer}
	return s.register()
}

type subscriber struct {
	tracer    trace.Tracer
	readSpans sync.Map // rid -> trace.Span
}

func (s *subscriber) register() func() {
	unsubs := []func(){
		eventbus.Subscribe(func(ctx context.Context, e events.ReadStart) {
			rid, _ := reqid.FromContext(ctx)
			_, span := s.tracer.Start(ctx, "graphcache.read")
			span.SetAttributes(
				attribute.String("graphql.operation.name", e.OperationName),
				attribute.String("graphql.operation.type", e.OperationType),
			)
			s.readSpans.Store(rid, span)
		}),

		eventbus.Subscribe(func(ctx context.Context, e events.ReadFinish) {
			rid, _ := reqid.FromContext(ctx)
			v, ok := s.readSpans.LoadAndDelete(rid)
			if !ok {
				return
			}
			span := v.(trace.Span)
			span.SetAttributes(
				attribute.Bool("graphcache.miss", e.Miss),
				attribute.Bool("graphcache.partial", e.Partial),
				attribute.Int("graphql.error_count", len(e.Errors)),
			)
			span.End()
		}),

		eventbus.Subscribe(func(ctx context.Context, e events.ConnectionResolved) {
			rid, _ := reqid.FromContext(ctx)
			parent := ctx
			if v, ok := s.readSpans.Load(rid); ok {
				parent = trace.ContextWithSpan(ctx, v.(trace.Span))
			}
			_, span := s.tracer.Start(parent, "graphcache.connection")
			span.SetAttributes(
				attribute.String("graphcache.entity", e.ParentKey),
				attribute.String("graphcache.field", e.FieldName),
				attribute.String("graphcache.merge_mode", e.MergeMode),
				attribute.String("graphcache.outcome", e.Outcome),
				attribute.Int("graphcache.nodes", e.Nodes),
			)
			if e.Err != nil {
				span.RecordError(e.Err)
				span.SetStatus(codes.Error, e.Err.Error())
			}
			span.End()
		}),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}
