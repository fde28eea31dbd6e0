package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"
	"go.temporal.io/sdk/workflow"

	authdomain "github.com/Apurer/go-gin-ecommerce-api/internal/domains/auth/domain"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/go-gin-ecommerce-api/internal/platform/temporal/activities/orders"
	"github.com/Apurer/go-gin-ecommerce-api/internal/shared/pagination"
)

type stubService struct {
	calls   int
	lastKey string
	err     error
}

func (s *stubService) PlaceOrder(_ context.Context, cmd orderports.PlaceOrderCommand) (*domain.Order, error) {
	s.calls++
	s.lastKey = cmd.IdempotencyKey
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Order{
		ID:       uuid.New(),
		Date:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Total:    decimal.RequireFromString("29.97"),
		Customer: domain.Customer{ID: cmd.UserID},
	}, nil
}

func (s *stubService) FindByID(context.Context, uuid.UUID) (*domain.Order, error) {
	return nil, orderports.ErrNotFound
}

func (s *stubService) FindAll(context.Context, authdomain.Principal, pagination.Page) ([]*domain.Order, error) {
	return nil, nil
}

func (s *stubService) Delete(context.Context, uuid.UUID, authdomain.Principal) (uuid.UUID, error) {
	return uuid.Nil, nil
}

func newEnv(t *testing.T, svc *stubService) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	env.RegisterWorkflowWithOptions(OrderPlacementWorkflow, workflow.RegisterOptions{Name: OrderPlacementWorkflowName})
	acts := orderactivities.NewActivities(svc)
	env.RegisterActivityWithOptions(acts.PlaceOrder, activity.RegisterOptions{Name: orderactivities.PlaceOrderActivityName})
	return env
}

func TestOrderPlacementWorkflow_Completes(t *testing.T) {
	svc := &stubService{}
	env := newEnv(t, svc)
	userID := uuid.New()

	env.ExecuteWorkflow(OrderPlacementWorkflowName, OrderPlacementWorkflowInput{
		Command: orderports.PlaceOrderCommand{
			UserID: userID,
			Lines:  []domain.Line{{ProductID: uuid.New(), Quantity: 3}},
		},
		TraceID: "trace-1",
	})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	var order domain.Order
	require.NoError(t, env.GetWorkflowResult(&order))
	require.Equal(t, userID, order.Customer.ID)
	require.Equal(t, "29.97", order.Total.StringFixed(2))
	require.Equal(t, 1, svc.calls)
	require.NotEmpty(t, svc.lastKey)
}

func TestOrderPlacementWorkflow_DomainErrorsAreNotRetried(t *testing.T) {
	svc := &stubService{err: &domain.StockError{Name: "Socks", Available: 2}}
	env := newEnv(t, svc)

	env.ExecuteWorkflow(OrderPlacementWorkflowName, OrderPlacementWorkflowInput{
		Command: orderports.PlaceOrderCommand{
			UserID:         uuid.New(),
			Lines:          []domain.Line{{ProductID: uuid.New(), Quantity: 3}},
			IdempotencyKey: "checkout-1",
		},
	})

	require.True(t, env.IsWorkflowCompleted())
	err := env.GetWorkflowError()
	require.Error(t, err)
	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, orderactivities.ErrorTypeInsufficientStock, appErr.Type())
	require.Equal(t, 1, svc.calls)
	require.Equal(t, "checkout-1", svc.lastKey)
}
