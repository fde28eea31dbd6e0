package ecommerceserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	usermapper "github.com/Apurer/go-gin-ecommerce-api/internal/domains/users/adapters/http/mapper"
	userports "github.com/Apurer/go-gin-ecommerce-api/internal/domains/users/ports"
)

type UserAPI struct {
	service userports.Service
}

func NewUserAPI(service userports.Service) UserAPI {
	return UserAPI{service: service}
}

// Get /users
func (api *UserAPI) ListUsers(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}
	users, err := api.service.List(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Envelope{Data: usermapper.FromDomainUsers(users)})
}

// Get /users/:id
func (api *UserAPI) GetUser(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	user, err := api.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Envelope{Data: usermapper.FromDomainUser(user)})
}

// Put /users/:id
func (api *UserAPI) UpdateUser(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var payload UpdateUserRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	updated, err := api.service.Update(c.Request.Context(), id, userports.UpdateInput{
		Name:    payload.Name,
		Email:   payload.Email,
		Phone:   payload.Phone,
		Country: payload.Country,
		City:    payload.City,
		Address: payload.Address,
		IsAdmin: payload.IsAdmin,
	}, principal)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Envelope{Message: "User updated successfully", ID: updated.String()})
}

// Delete /users/:id
func (api *UserAPI) DeleteUser(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	deleted, err := api.service.Delete(c.Request.Context(), id, principal)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Envelope{Message: "User deleted successfully", ID: deleted.String()})
}
