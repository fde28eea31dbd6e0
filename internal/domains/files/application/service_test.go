package application

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	categorymemory "github.com/Apurer/go-gin-ecommerce-api/internal/domains/categories/adapters/memory"
	categorydomain "github.com/Apurer/go-gin-ecommerce-api/internal/domains/categories/domain"
	filememory "github.com/Apurer/go-gin-ecommerce-api/internal/domains/files/adapters/memory"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/files/ports"
	productmemory "github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/adapters/memory"
	productapp "github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/application"
	productdomain "github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/domain"
	productports "github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/ports"
)

func seedProduct(t *testing.T) (productports.Service, *productdomain.Product) {
	t.Helper()
	ctx := context.Background()
	categories := categorymemory.NewRepository()
	category, err := categorydomain.NewCategory("Shoes")
	require.NoError(t, err)
	_, err = categories.Create(ctx, category)
	require.NoError(t, err)
	products := productapp.NewService(productmemory.NewRepository(), categories)
	product, err := products.Create(ctx, productports.CreateInput{
		Name:        "Air Runner",
		Description: "Lightweight running shoe",
		Price:       decimal.RequireFromString("9.99"),
		Stock:       1,
		Category:    "Shoes",
	})
	require.NoError(t, err)
	return products, product
}

func png(size int) *ports.Upload {
	return &ports.Upload{Filename: "a.png", ContentType: "image/png", Size: int64(size), Body: bytes.NewReader(make([]byte, size))}
}

func TestUploadProductImage(t *testing.T) {
	products, product := seedProduct(t)
	store := filememory.NewStore("https://img.test")
	svc := NewService(products, store)

	updated, err := svc.UploadProductImage(context.Background(), product.ID, png(1024))
	require.NoError(t, err)
	assert.Equal(t, "https://img.test/"+product.ID.String(), updated.ImgURL)
	body, ok := store.Object(product.ID.String())
	require.True(t, ok)
	assert.Len(t, body, 1024)
}

func TestUploadProductImage_Validation(t *testing.T) {
	products, product := seedProduct(t)
	svc := NewService(products, filememory.NewStore("https://img.test"))
	ctx := context.Background()

	_, err := svc.UploadProductImage(ctx, product.ID, nil)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, ErrNoFile)

	_, err = svc.UploadProductImage(ctx, product.ID, png(MaxImageSize+1))
	require.ErrorIs(t, err, ErrFileTooLarge)

	gif := png(10)
	gif.ContentType = "image/gif"
	_, err = svc.UploadProductImage(ctx, product.ID, gif)
	require.ErrorIs(t, err, ErrUnsupportedType)

	_, err = svc.UploadProductImage(ctx, uuid.New(), png(10))
	require.ErrorIs(t, err, productports.ErrNotFound)
}

func TestUploadProductImage_NoStore(t *testing.T) {
	products, product := seedProduct(t)
	svc := NewService(products, nil)

	_, err := svc.UploadProductImage(context.Background(), product.ID, png(10))
	require.ErrorIs(t, err, ports.ErrUnavailable)
}
