package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoalesceLines(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	lines := CoalesceLines([]Line{{a, 2}, {b, 1}, {a, 3}})
	require.Len(t, lines, 2)
	assert.Equal(t, Line{a, 5}, lines[0])
	assert.Equal(t, Line{b, 1}, lines[1])
}

func TestValidateLines(t *testing.T) {
	require.ErrorIs(t, ValidateNotEmpty(nil), ErrEmptyOrder)
	require.NoError(t, ValidateNotEmpty([]Line{{uuid.New(), 0}}))

	require.ErrorIs(t, ValidateLines(nil), ErrEmptyOrder)
	require.ErrorIs(t, ValidateLines([]Line{{uuid.New(), 0}}), ErrInvalidQuantity)
	require.NoError(t, ValidateLines([]Line{{uuid.New(), 1}}))

	err := ValidateLines([]Line{{uuid.New(), 1}, {uuid.Nil, 2}})
	require.ErrorIs(t, err, ErrMissingProduct)
	assert.False(t, errors.Is(err, ErrInvalidQuantity))
	assert.Equal(t, "order line must name a product: line 2", err.Error())
}

func TestPlace_ComputesTotalsAndStock(t *testing.T) {
	shirt := Product{ID: uuid.New(), Name: "Shirt", Price: decimal.RequireFromString("9.99"), Stock: 10}
	socks := Product{ID: uuid.New(), Name: "Socks", Price: decimal.RequireFromString("3.335"), Stock: 2}
	products := map[uuid.UUID]Product{shirt.ID: shirt, socks.ID: socks}
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	id := uuid.New()
	order, stock, err := Place(id, Customer{ID: uuid.New()}, []Line{{shirt.ID, 3}, {socks.ID, 1}}, products, now)
	require.NoError(t, err)
	assert.Equal(t, id, order.ID)
	assert.Equal(t, now, order.Date)
	require.Len(t, order.Details, 2)
	assert.Equal(t, "29.97", order.Details[0].Subtotal.StringFixed(2))
	assert.Equal(t, "3.34", order.Details[1].Subtotal.StringFixed(2))
	assert.Equal(t, "33.31", order.Total.StringFixed(2))
	assert.Equal(t, 7, stock[shirt.ID])
	assert.Equal(t, 1, stock[socks.ID])
	assert.Equal(t, 7, order.Details[0].Product.Stock)
}

func TestPlace_InsufficientStock(t *testing.T) {
	shirt := Product{ID: uuid.New(), Name: "Shirt", Price: decimal.RequireFromString("9.99"), Stock: 10}
	socks := Product{ID: uuid.New(), Name: "Socks", Price: decimal.RequireFromString("1.00"), Stock: 2}
	products := map[uuid.UUID]Product{shirt.ID: shirt, socks.ID: socks}

	_, stock, err := Place(uuid.New(), Customer{}, []Line{{shirt.ID, 1}, {socks.ID, 3}}, products, time.Now())
	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Nil(t, stock)

	var stockErr *StockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "insufficient stock for product Socks. Available: 2", stockErr.Error())
}
