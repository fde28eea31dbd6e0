package observability

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	authdomain "github.com/Apurer/go-gin-ecommerce-api/internal/domains/auth/domain"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-ecommerce-api/internal/shared/pagination"
)

const tracerName = "github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/adapters/observability/service"

// Service decorates the orders service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:  inner,
		tracer: nooptrace.NewTracerProvider().Tracer(tracerName),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) PlaceOrder(ctx context.Context, cmd ports.PlaceOrderCommand) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.PlaceOrder", trace.WithAttributes(
		attribute.String("user.id", cmd.UserID.String()),
		attribute.String("caller.id", cmd.Caller.UserID.String()),
		attribute.Int("order.lines", len(cmd.Lines)),
		attribute.Bool("order.idempotent", cmd.IdempotencyKey != ""),
	))
	defer span.End()

	s.logInfo(ctx, "placing order", slog.String("user.id", cmd.UserID.String()), slog.Int("order.lines", len(cmd.Lines)))
	order, err := s.inner.PlaceOrder(ctx, cmd)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) && s.metrics.stockRejections != nil {
			s.metrics.stockRejections.Add(ctx, 1)
		}
		return nil, s.handleError(ctx, span, err, "failed to place order", slog.String("user.id", cmd.UserID.String()))
	}
	span.SetAttributes(
		attribute.String("order.id", order.ID.String()),
		attribute.String("order.total", order.Total.StringFixed(2)),
	)
	if s.metrics.ordersPlaced != nil {
		s.metrics.ordersPlaced.Add(ctx, 1)
	}
	s.logInfo(ctx, "order placed",
		slog.String("order.id", order.ID.String()),
		slog.String("order.total", order.Total.StringFixed(2)),
	)
	return order, nil
}

func (s *Service) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.FindByID", trace.WithAttributes(attribute.String("order.id", id.String())))
	defer span.End()

	order, err := s.inner.FindByID(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to get order", slog.String("order.id", id.String()))
	}
	return order, nil
}

func (s *Service) FindAll(ctx context.Context, caller authdomain.Principal, page pagination.Page) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.FindAll", trace.WithAttributes(
		attribute.String("caller.id", caller.UserID.String()),
		attribute.Bool("caller.admin", caller.IsAdmin()),
		attribute.Int("page", page.Page),
		attribute.Int("limit", page.Limit),
	))
	defer span.End()

	orders, err := s.inner.FindAll(ctx, caller, page)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders", slog.String("caller.id", caller.UserID.String()))
	}
	span.SetAttributes(attribute.Int("orders.count", len(orders)))
	return orders, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID, caller authdomain.Principal) (uuid.UUID, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.Delete", trace.WithAttributes(
		attribute.String("order.id", id.String()),
		attribute.String("caller.id", caller.UserID.String()),
	))
	defer span.End()

	deleted, err := s.inner.Delete(ctx, id, caller)
	if err != nil {
		return uuid.Nil, s.handleError(ctx, span, err, "failed to delete order", slog.String("order.id", id.String()))
	}
	if s.metrics.ordersDeleted != nil {
		s.metrics.ordersDeleted.Add(ctx, 1)
	}
	s.logInfo(ctx, "order deleted", slog.String("order.id", id.String()))
	return deleted, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

type serviceMetrics struct {
	ordersPlaced    metric.Int64Counter
	ordersDeleted   metric.Int64Counter
	stockRejections metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	placed, _ := m.Int64Counter("orders.service.orders_placed", metric.WithDescription("Number of orders placed"))
	deleted, _ := m.Int64Counter("orders.service.orders_deleted", metric.WithDescription("Number of orders deleted"))
	rejected, _ := m.Int64Counter("orders.service.insufficient_stock", metric.WithDescription("Number of placements rejected for lack of stock"))
	return serviceMetrics{ordersPlaced: placed, ordersDeleted: deleted, stockRejections: rejected}
}

var _ ports.Service = (*Service)(nil)
