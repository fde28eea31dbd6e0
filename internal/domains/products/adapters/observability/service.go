package observability

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/domain"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/ports"
	"github.com/Apurer/go-gin-ecommerce-api/internal/shared/pagination"
)

const tracerName = "github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/adapters/observability/service"

// Service decorates the products service with tracing, logging, and metrics.
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

func (s *Service) List(ctx context.Context, page pagination.Page) ([]*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "ProductsService.List", trace.WithAttributes(
		attribute.Int("page", page.Page),
		attribute.Int("limit", page.Limit),
	))
	defer span.End()

	products, err := s.inner.List(ctx, page)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list products")
	}
	span.SetAttributes(attribute.Int("products.count", len(products)))
	return products, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "ProductsService.GetByID", trace.WithAttributes(attribute.String("product.id", id.String())))
	defer span.End()

	product, err := s.inner.GetByID(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to get product", slog.String("product.id", id.String()))
	}
	return product, nil
}

func (s *Service) Create(ctx context.Context, input ports.CreateInput) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "ProductsService.Create", trace.WithAttributes(
		attribute.String("product.name", input.Name),
		attribute.String("category.name", input.Category),
	))
	defer span.End()

	s.logInfo(ctx, "creating product", slog.String("product.name", input.Name))
	product, err := s.inner.Create(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create product", slog.String("product.name", input.Name))
	}
	span.SetAttributes(attribute.String("product.id", product.ID.String()))
	if s.metrics.productsCreated != nil {
		s.metrics.productsCreated.Add(ctx, 1)
	}
	s.logInfo(ctx, "product created", slog.String("product.id", product.ID.String()))
	return product, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, input ports.UpdateInput) (uuid.UUID, error) {
	ctx, span := s.tracer.Start(ctx, "ProductsService.Update", trace.WithAttributes(attribute.String("product.id", id.String())))
	defer span.End()

	updated, err := s.inner.Update(ctx, id, input)
	if err != nil {
		return uuid.Nil, s.handleError(ctx, span, err, "failed to update product", slog.String("product.id", id.String()))
	}
	s.logInfo(ctx, "product updated", slog.String("product.id", id.String()))
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	ctx, span := s.tracer.Start(ctx, "ProductsService.Delete", trace.WithAttributes(attribute.String("product.id", id.String())))
	defer span.End()

	deleted, err := s.inner.Delete(ctx, id)
	if err != nil {
		return uuid.Nil, s.handleError(ctx, span, err, "failed to delete product", slog.String("product.id", id.String()))
	}
	if s.metrics.productsDeleted != nil {
		s.metrics.productsDeleted.Add(ctx, 1)
	}
	s.logInfo(ctx, "product deleted", slog.String("product.id", id.String()))
	return deleted, nil
}

func (s *Service) SetImageURL(ctx context.Context, id uuid.UUID, url string) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "ProductsService.SetImageURL", trace.WithAttributes(attribute.String("product.id", id.String())))
	defer span.End()

	product, err := s.inner.SetImageURL(ctx, id, url)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to set product image", slog.String("product.id", id.String()))
	}
	s.logInfo(ctx, "product image updated", slog.String("product.id", id.String()), slog.String("product.img_url", url))
	return product, nil
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
	productsCreated metric.Int64Counter
	productsDeleted metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("products.service.products_created", metric.WithDescription("Number of products created"))
	deleted, _ := m.Int64Counter("products.service.products_deleted", metric.WithDescription("Number of products deleted"))
	return serviceMetrics{productsCreated: created, productsDeleted: deleted}
}

var _ ports.Service = (*Service)(nil)
