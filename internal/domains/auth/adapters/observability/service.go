package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	authdomain "github.com/Apurer/go-gin-ecommerce-api/internal/domains/auth/domain"
	authports "github.com/Apurer/go-gin-ecommerce-api/internal/domains/auth/ports"
	userdomain "github.com/Apurer/go-gin-ecommerce-api/internal/domains/users/domain"
)

const tracerName = "github.com/Apurer/go-gin-ecommerce-api/internal/domains/auth/adapters/observability/service"

// Service decorates the auth service with tracing, logging, and metrics.
// Authenticate runs on every protected request and is traced but not logged.
type Service struct {
	inner   authports.Service
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

func New(inner authports.Service, opts ...Option) authports.Service {
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

func (s *Service) SignUp(ctx context.Context, input authports.SignUpInput) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.SignUp")
	defer span.End()

	s.logInfo(ctx, "registering user", slog.String("user.email", input.Email))
	user, err := s.inner.SignUp(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to register user", slog.String("user.email", input.Email))
	}
	span.SetAttributes(attribute.String("user.id", user.ID.String()))
	s.metrics.add(ctx, s.metrics.signUps, "ok")
	s.logInfo(ctx, "user registered", slog.String("user.id", user.ID.String()))
	return user, nil
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*authports.Session, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.SignIn")
	defer span.End()

	session, err := s.inner.SignIn(ctx, email, password)
	if err != nil {
		s.metrics.add(ctx, s.metrics.signIns, "rejected")
		return nil, s.handleError(ctx, span, err, "sign-in rejected", slog.String("user.email", email))
	}
	span.SetAttributes(attribute.String("user.id", session.User.ID.String()))
	s.metrics.add(ctx, s.metrics.signIns, "ok")
	s.logInfo(ctx, "user signed in", slog.String("user.id", session.User.ID.String()))
	return session, nil
}

func (s *Service) SignOut(ctx context.Context, principal authdomain.Principal) error {
	ctx, span := s.tracer.Start(ctx, "AuthService.SignOut", trace.WithAttributes(attribute.String("user.id", principal.UserID.String())))
	defer span.End()

	if err := s.inner.SignOut(ctx, principal); err != nil {
		return s.handleError(ctx, span, err, "failed to sign out", slog.String("user.id", principal.UserID.String()))
	}
	s.logInfo(ctx, "user signed out", slog.String("user.id", principal.UserID.String()))
	return nil
}

func (s *Service) Authenticate(ctx context.Context, token string) (authdomain.Principal, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Authenticate")
	defer span.End()

	principal, err := s.inner.Authenticate(ctx, token)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return authdomain.Principal{}, err
	}
	span.SetAttributes(attribute.String("user.id", principal.UserID.String()), attribute.String("user.role", string(principal.Role)))
	return principal, nil
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
		s.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
	}
	return err
}

type serviceMetrics struct {
	signUps metric.Int64Counter
	signIns metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	signUps, _ := m.Int64Counter("auth.service.signups", metric.WithDescription("Number of accounts registered"))
	signIns, _ := m.Int64Counter("auth.service.signins", metric.WithDescription("Number of sign-in attempts by outcome"))
	return serviceMetrics{signUps: signUps, signIns: signIns}
}

func (m serviceMetrics) add(ctx context.Context, counter metric.Int64Counter, outcome string) {
	if counter != nil {
		counter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}

var _ authports.Service = (*Service)(nil)
