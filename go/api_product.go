package ecommerceserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	productmapper "github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/adapters/http/mapper"
	productports "github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/ports"
)

type ProductAPI struct {
	service productports.Service
}

func NewProductAPI(service productports.Service) ProductAPI {
	return ProductAPI{service: service}
}

// Get /products
func (api *ProductAPI) ListProducts(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}
	products, err := api.service.List(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Envelope{Data: productmapper.FromDomainProducts(products)})
}

// Get /products/:id
func (api *ProductAPI) GetProduct(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	product, err := api.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Envelope{Data: productmapper.FromDomainProduct(product)})
}

// Post /products
func (api *ProductAPI) CreateProduct(c *gin.Context) {
	var payload CreateProductRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	product, err := api.service.Create(c.Request.Context(), productports.CreateInput{
		Name:        payload.Name,
		Description: payload.Description,
		Price:       payload.Price,
		Stock:       *payload.Stock,
		ImgURL:      payload.ImgURL,
		Category:    payload.Category,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Envelope{Message: "Product created successfully", Data: productmapper.FromDomainProduct(product)})
}

// Put /products/:id
func (api *ProductAPI) UpdateProduct(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var payload UpdateProductRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	updated, err := api.service.Update(c.Request.Context(), id, productports.UpdateInput{
		Name:        payload.Name,
		Description: payload.Description,
		Price:       payload.Price,
		Stock:       payload.Stock,
		ImgURL:      payload.ImgURL,
		Category:    payload.Category,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Envelope{Message: "Product updated successfully", ID: updated.String()})
}

// Delete /products/:id
func (api *ProductAPI) DeleteProduct(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	deleted, err := api.service.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Envelope{Message: "Product deleted successfully", ID: deleted.String()})
}
