package ecommerceserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	categorymapper "github.com/Apurer/go-gin-ecommerce-api/internal/domains/categories/adapters/http/mapper"
	categoryports "github.com/Apurer/go-gin-ecommerce-api/internal/domains/categories/ports"
)

type CategoryAPI struct {
	service categoryports.Service
}

func NewCategoryAPI(service categoryports.Service) CategoryAPI {
	return CategoryAPI{service: service}
}

// Get /categories
func (api *CategoryAPI) ListCategories(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}
	categories, err := api.service.List(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Envelope{Data: categorymapper.FromDomainCategories(categories)})
}

// Post /categories
func (api *CategoryAPI) CreateCategory(c *gin.Context) {
	var payload CreateCategoryRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	category, err := api.service.Create(c.Request.Context(), payload.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Envelope{Message: "Category created successfully", Data: categorymapper.FromDomainCategory(category)})
}
