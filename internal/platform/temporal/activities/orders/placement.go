package orders

import (
	"context"
	"errors"
	"strings"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	authdomain "github.com/Apurer/go-gin-ecommerce-api/internal/domains/auth/domain"
	orderapp "github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/application"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/ports"
)

// PlaceOrderActivityName places an order through the orders service.
const PlaceOrderActivityName = "orders.activities.PlaceOrder"

// Application error types carried across the workflow boundary.
const (
	ErrorTypeInvalidInput        = "InvalidInput"
	ErrorTypeUnauthorized        = "Unauthorized"
	ErrorTypeOrderNotFound       = "OrderNotFound"
	ErrorTypeUserNotFound        = "UserNotFound"
	ErrorTypeProductNotFound     = "ProductNotFound"
	ErrorTypeInsufficientStock   = "InsufficientStock"
	ErrorTypeIdempotencyConflict = "IdempotencyConflict"
)

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service orderports.Service
}

func NewActivities(service orderports.Service) *Activities {
	return &Activities{service: service}
}

// PlaceOrder runs one placement. Without a caller supplied key the workflow id
// becomes the idempotency key, so a retried attempt replays the committed order.
func (a *Activities) PlaceOrder(ctx context.Context, cmd orderports.PlaceOrderCommand) (*domain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("order placement activity not initialized", "userId", cmd.UserID)
		return nil, errors.New("order placement activity not initialized")
	}
	if strings.TrimSpace(cmd.IdempotencyKey) == "" {
		cmd.IdempotencyKey = activity.GetInfo(ctx).WorkflowExecution.ID
	}
	logger.Info("PlaceOrder activity started", "userId", cmd.UserID, "lines", len(cmd.Lines))
	order, err := a.service.PlaceOrder(ctx, cmd)
	if err != nil {
		logger.Error("PlaceOrder activity failed", "userId", cmd.UserID, "error", err)
		return nil, ClassifyError(err)
	}
	logger.Info("PlaceOrder activity completed", "orderId", order.ID, "total", order.Total.StringFixed(2))
	return order, nil
}

// ClassifyError turns domain failures into non-retryable application errors
// whose single detail is the original message. Anything else is returned
// unchanged and retried by the activity policy.
func ClassifyError(err error) error {
	if errType := errorType(err); errType != "" {
		return temporal.NewNonRetryableApplicationError(err.Error(), errType, nil, err.Error())
	}
	return err
}

func errorType(err error) string {
	switch {
	case errors.Is(err, orderapp.ErrInvalidInput):
		return ErrorTypeInvalidInput
	case errors.Is(err, authdomain.ErrUnauthorized):
		return ErrorTypeUnauthorized
	case errors.Is(err, domain.ErrInsufficientStock):
		return ErrorTypeInsufficientStock
	case errors.Is(err, orderports.ErrIdempotencyConflict):
		return ErrorTypeIdempotencyConflict
	case errors.Is(err, orderports.ErrUserNotFound):
		return ErrorTypeUserNotFound
	case errors.Is(err, orderports.ErrProductNotFound):
		return ErrorTypeProductNotFound
	case errors.Is(err, orderports.ErrNotFound):
		return ErrorTypeOrderNotFound
	default:
		return ""
	}
}
