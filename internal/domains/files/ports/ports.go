package ports

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"

	productdomain "github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/domain"
)

// ErrUnavailable is returned when no image store is configured.
var ErrUnavailable = errors.New("image storage is not configured")

// Upload is an image received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ImageStore hosts product images and returns their public URL.
type ImageStore interface {
	Upload(ctx context.Context, name string, upload Upload) (string, error)
}

type Service interface {
	UploadProductImage(ctx context.Context, productID uuid.UUID, upload *Upload) (*productdomain.Product, error)
}
