package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/go-gin-ecommerce-api/internal/platform/temporal/activities/orders"
)

// RunOrderPlacementSequence executes the placement activity with the shared retry policy.
func RunOrderPlacementSequence(ctx workflow.Context, cmd orderports.PlaceOrderCommand) (*domain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order placement sequence started", "userId", cmd.UserID)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
			NonRetryableErrorTypes: []string{
				orderactivities.ErrorTypeInvalidInput,
				orderactivities.ErrorTypeUnauthorized,
				orderactivities.ErrorTypeOrderNotFound,
				orderactivities.ErrorTypeUserNotFound,
				orderactivities.ErrorTypeProductNotFound,
				orderactivities.ErrorTypeInsufficientStock,
				orderactivities.ErrorTypeIdempotencyConflict,
			},
		},
	}

	var order domain.Order
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, options), orderactivities.PlaceOrderActivityName, cmd).Get(ctx, &order)
	if err != nil {
		logger.Error("order placement sequence failed", "userId", cmd.UserID, "error", err)
		return nil, err
	}
	logger.Info("order placement sequence completed", "orderId", order.ID)
	return &order, nil
}
