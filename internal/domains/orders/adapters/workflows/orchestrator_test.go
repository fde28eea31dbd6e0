package workflows

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"

	authdomain "github.com/Apurer/go-gin-ecommerce-api/internal/domains/auth/domain"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/go-gin-ecommerce-api/internal/platform/temporal/activities/orders"
)

func TestRestoreError_MapsApplicationErrorTypes(t *testing.T) {
	stockErr := &domain.StockError{Name: "Socks", Available: 2}
	wrapped := fmt.Errorf("workflow failed: %w", orderactivities.ClassifyError(stockErr))

	restored := restoreError(wrapped)
	require.ErrorIs(t, restored, domain.ErrInsufficientStock)
	assert.Equal(t, "insufficient stock for product Socks. Available: 2", restored.Error())

	conflict := restoreError(temporal.NewNonRetryableApplicationError("reused", orderactivities.ErrorTypeIdempotencyConflict, nil))
	require.ErrorIs(t, conflict, ports.ErrIdempotencyConflict)
}

func TestRestoreError_LeavesUnknownErrors(t *testing.T) {
	plain := errors.New("connection refused")
	assert.Same(t, plain, restoreError(plain))

	other := temporal.NewApplicationError("boom", "SomethingElse")
	assert.Equal(t, other, restoreError(other))
}

func TestBuildOrderPlacementWorkflowID(t *testing.T) {
	userID := uuid.New()
	caller := authdomain.Principal{UserID: userID, Role: authdomain.RoleUser}
	withKey := buildOrderPlacementWorkflowID(ports.PlaceOrderCommand{UserID: userID, Caller: caller, IdempotencyKey: " checkout-1 "}, "trace")
	assert.Equal(t, withKey, buildOrderPlacementWorkflowID(ports.PlaceOrderCommand{Caller: caller, IdempotencyKey: "checkout-1"}, "other"))
	assert.Contains(t, withKey, "order-placement-idem-")

	otherCaller := authdomain.Principal{UserID: uuid.New(), Role: authdomain.RoleUser}
	assert.NotEqual(t, withKey, buildOrderPlacementWorkflowID(ports.PlaceOrderCommand{Caller: otherCaller, IdempotencyKey: "checkout-1"}, "trace"))

	withoutKey := buildOrderPlacementWorkflowID(ports.PlaceOrderCommand{UserID: userID}, "abc123")
	assert.Equal(t, fmt.Sprintf("order-placement-%s-abc123", userID), withoutKey)
}
