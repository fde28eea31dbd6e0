package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/files/ports"
	productdomain "github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/domain"
	productports "github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/ports"
)

// MaxImageSize is the largest accepted upload, 200 KiB.
const MaxImageSize = 200 * 1024

var (
	// ErrInvalidInput signals an upload that fails validation.
	ErrInvalidInput = errors.New("invalid file upload")

	ErrNoFile          = errors.New("no file uploaded")
	ErrFileTooLarge    = errors.New("file exceeds the 200KB limit")
	ErrUnsupportedType = errors.New("file type must be jpeg, jpg, png, or webp")
)

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/jpg":  true,
	"image/webp": true,
}

type Service struct {
	products productports.Service
	store    ports.ImageStore
}

// NewService wires the uploader; a nil store makes every upload fail with ErrUnavailable.
func NewService(products productports.Service, store ports.ImageStore) *Service {
	return &Service{products: products, store: store}
}

// UploadProductImage validates the upload, stores it, and points the product's image at it.
func (s *Service) UploadProductImage(ctx context.Context, productID uuid.UUID, upload *ports.Upload) (*productdomain.Product, error) {
	if err := validate(upload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	if s.store == nil {
		return nil, ports.ErrUnavailable
	}
	url, err := s.store.Upload(ctx, productID.String(), *upload)
	if err != nil {
		return nil, err
	}
	return s.products.SetImageURL(ctx, productID, url)
}

func validate(upload *ports.Upload) error {
	if upload == nil || upload.Body == nil || upload.Size == 0 {
		return ErrNoFile
	}
	if upload.Size > MaxImageSize {
		return ErrFileTooLarge
	}
	contentType := strings.ToLower(strings.TrimSpace(upload.ContentType))
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	if !allowedTypes[contentType] {
		return ErrUnsupportedType
	}
	return nil
}

var _ ports.Service = (*Service)(nil)
