package ecommerceserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	filesports "github.com/Apurer/go-gin-ecommerce-api/internal/domains/files/ports"
	productmapper "github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/adapters/http/mapper"
)

type FileAPI struct {
	service filesports.Service
}

func NewFileAPI(service filesports.Service) FileAPI {
	return FileAPI{service: service}
}

// Post /files/upload/:id
// Replaces the product image with the multipart "file" field.
func (api *FileAPI) UploadProductImage(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var upload *filesports.Upload
	header, err := c.FormFile("file")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// The service reports the missing file.
	case err != nil:
		respondBadRequest(c, err)
		return
	default:
		file, err := header.Open()
		if err != nil {
			respondBadRequest(c, err)
			return
		}
		defer file.Close()
		upload = &filesports.Upload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        file,
		}
	}
	product, err := api.service.UploadProductImage(c.Request.Context(), id, upload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Envelope{Message: "Image uploaded successfully", Data: productmapper.FromDomainProduct(product)})
}
