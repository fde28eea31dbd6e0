// Package cloudinary hosts product images on Cloudinary.
package cloudinary

import (
	"context"
	"errors"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/files/ports"
)

// DefaultFolder groups product images in the Cloudinary media library.
const DefaultFolder = "ecommerce-products"

var _ ports.ImageStore = (*Store)(nil)

type Store struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewStore builds a store from account credentials.
func NewStore(cloudName, apiKey, apiSecret string) (*Store, error) {
	if strings.TrimSpace(cloudName) == "" || strings.TrimSpace(apiKey) == "" || strings.TrimSpace(apiSecret) == "" {
		return nil, errors.New("cloudinary credentials are incomplete")
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	return &Store{cld: cld, folder: DefaultFolder}, nil
}

// Upload stores the image under name, replacing any previous image for it.
func (s *Store) Upload(ctx context.Context, name string, upload ports.Upload) (string, error) {
	result, err := s.cld.Upload.Upload(ctx, upload.Body, uploader.UploadParams{
		Folder:       s.folder,
		PublicID:     name,
		Overwrite:    api.Bool(true),
		ResourceType: "image",
	})
	if err != nil {
		return "", err
	}
	if result.Error.Message != "" {
		return "", errors.New(result.Error.Message)
	}
	return result.SecureURL, nil
}
