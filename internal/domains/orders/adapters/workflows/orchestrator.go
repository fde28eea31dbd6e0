package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	authdomain "github.com/Apurer/go-gin-ecommerce-api/internal/domains/auth/domain"
	orderapp "github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/application"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/go-gin-ecommerce-api/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/go-gin-ecommerce-api/internal/platform/temporal/workflows/orders"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalOrderWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineOrderWorkflows)(nil)
)

// TemporalOrderWorkflows starts order placement workflows on a Temporal cluster.
type TemporalOrderWorkflows struct {
	client    client.Client
	taskQueue string
}

func NewTemporalOrderWorkflows(c client.Client) *TemporalOrderWorkflows {
	return &TemporalOrderWorkflows{client: c, taskQueue: orderworkflows.OrderPlacementTaskQueue}
}

// PlaceOrder starts the placement workflow and waits for its result. A second
// start with the same idempotency key joins the running or finished execution.
func (o *TemporalOrderWorkflows) PlaceOrder(ctx context.Context, cmd ports.PlaceOrderCommand) (*domain.Order, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal order workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	workflowID := buildOrderPlacementWorkflowID(cmd, traceComponent)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.OrderPlacementWorkflow,
		orderworkflows.OrderPlacementWorkflowInput{Command: cmd, TraceID: traceComponent},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) && strings.TrimSpace(cmd.IdempotencyKey) != "" {
			existingRun := o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
			var order domain.Order
			if err := existingRun.Get(ctx, &order); err != nil {
				return nil, restoreError(err)
			}
			return &order, nil
		}
		return nil, err
	}
	var order domain.Order
	if err := run.Get(ctx, &order); err != nil {
		return nil, restoreError(err)
	}
	return &order, nil
}

// InlineOrderWorkflows calls the service directly, for tests and for running without Temporal.
type InlineOrderWorkflows struct {
	service ports.Service
}

func NewInlineOrderWorkflows(service ports.Service) *InlineOrderWorkflows {
	return &InlineOrderWorkflows{service: service}
}

func (o *InlineOrderWorkflows) PlaceOrder(ctx context.Context, cmd ports.PlaceOrderCommand) (*domain.Order, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline order workflows not configured")
	}
	return o.service.PlaceOrder(ctx, cmd)
}

// workflowError keeps the activity's message while matching the original sentinel.
type workflowError struct {
	kind    error
	message string
}

func (e *workflowError) Error() string { return e.message }
func (e *workflowError) Unwrap() error { return e.kind }

func restoreError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	kind := sentinelFor(appErr.Type())
	if kind == nil {
		return err
	}
	message := appErr.Error()
	var detail string
	if appErr.HasDetails() && appErr.Details(&detail) == nil && detail != "" {
		message = detail
	}
	return &workflowError{kind: kind, message: message}
}

func sentinelFor(errType string) error {
	switch errType {
	case orderactivities.ErrorTypeInvalidInput:
		return orderapp.ErrInvalidInput
	case orderactivities.ErrorTypeUnauthorized:
		return authdomain.ErrUnauthorized
	case orderactivities.ErrorTypeOrderNotFound:
		return ports.ErrNotFound
	case orderactivities.ErrorTypeUserNotFound:
		return ports.ErrUserNotFound
	case orderactivities.ErrorTypeProductNotFound:
		return ports.ErrProductNotFound
	case orderactivities.ErrorTypeInsufficientStock:
		return domain.ErrInsufficientStock
	case orderactivities.ErrorTypeIdempotencyConflict:
		return ports.ErrIdempotencyConflict
	default:
		return nil
	}
}

func buildOrderPlacementWorkflowID(cmd ports.PlaceOrderCommand, traceComponent string) string {
	if key := strings.TrimSpace(cmd.IdempotencyKey); key != "" {
		return fmt.Sprintf("order-placement-idem-%s", hashIdempotencyKey(ports.ScopedIdempotencyKey(cmd.Caller.UserID, key)))
	}
	return fmt.Sprintf("order-placement-%s-%s", cmd.UserID, traceComponent)
}

func hashIdempotencyKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:8])
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
