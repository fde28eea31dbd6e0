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

	authdomain "github.com/Apurer/go-gin-ecommerce-api/internal/domains/auth/domain"
	userdomain "github.com/Apurer/go-gin-ecommerce-api/internal/domains/users/domain"
	userports "github.com/Apurer/go-gin-ecommerce-api/internal/domains/users/ports"
	"github.com/Apurer/go-gin-ecommerce-api/internal/shared/pagination"
)

const tracerName = "github.com/Apurer/go-gin-ecommerce-api/internal/domains/users/adapters/observability/service"

// Service decorates the users service with tracing, logging, and metrics.
type Service struct {
	inner   userports.Service
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

func New(inner userports.Service, opts ...Option) userports.Service {
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

func (s *Service) List(ctx context.Context, page pagination.Page) ([]*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UsersService.List",
		trace.WithAttributes(attribute.Int("page", page.Page), attribute.Int("limit", page.Limit)))
	defer span.End()

	result, err := s.inner.List(ctx, page)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list users")
	}
	span.SetAttributes(attribute.Int("users.count", len(result)))
	return result, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UsersService.GetByID", trace.WithAttributes(attribute.String("user.id", id.String())))
	defer span.End()

	result, err := s.inner.GetByID(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load user", slog.String("user.id", id.String()))
	}
	return result, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, input userports.UpdateInput, caller authdomain.Principal) (uuid.UUID, error) {
	ctx, span := s.tracer.Start(ctx, "UsersService.Update", trace.WithAttributes(
		attribute.String("user.id", id.String()),
		attribute.String("caller.id", caller.UserID.String()),
		attribute.String("caller.role", string(caller.Role)),
	))
	defer span.End()

	s.logInfo(ctx, "updating user", slog.String("user.id", id.String()), slog.String("caller.id", caller.UserID.String()))
	result, err := s.inner.Update(ctx, id, input, caller)
	if err != nil {
		return uuid.Nil, s.handleError(ctx, span, err, "failed to update user", slog.String("user.id", id.String()))
	}
	s.metrics.recordUpdated(ctx)
	s.logInfo(ctx, "user updated", slog.String("user.id", result.String()))
	return result, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID, caller authdomain.Principal) (uuid.UUID, error) {
	ctx, span := s.tracer.Start(ctx, "UsersService.Delete", trace.WithAttributes(
		attribute.String("user.id", id.String()),
		attribute.String("caller.id", caller.UserID.String()),
	))
	defer span.End()

	s.logInfo(ctx, "deleting user", slog.String("user.id", id.String()))
	result, err := s.inner.Delete(ctx, id, caller)
	if err != nil {
		return uuid.Nil, s.handleError(ctx, span, err, "failed to delete user", slog.String("user.id", id.String()))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "user deleted", slog.String("user.id", result.String()))
	return result, nil
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
	usersUpdated metric.Int64Counter
	usersDeleted metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	updated, _ := m.Int64Counter("users.service.users_updated", metric.WithDescription("Number of user profiles updated"))
	deleted, _ := m.Int64Counter("users.service.users_deleted", metric.WithDescription("Number of users deleted"))
	return serviceMetrics{usersUpdated: updated, usersDeleted: deleted}
}

func (m serviceMetrics) recordUpdated(ctx context.Context) {
	if m.usersUpdated != nil {
		m.usersUpdated.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	if m.usersDeleted != nil {
		m.usersDeleted.Add(ctx, 1)
	}
}

var _ userports.Service = (*Service)(nil)
