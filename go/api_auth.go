package ecommerceserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authports "github.com/Apurer/go-gin-ecommerce-api/internal/domains/auth/ports"
	usermapper "github.com/Apurer/go-gin-ecommerce-api/internal/domains/users/adapters/http/mapper"
)

// AuthAPI exposes sign up, sign in and sign out.
type AuthAPI struct {
	service authports.Service
}

func NewAuthAPI(service authports.Service) AuthAPI {
	return AuthAPI{service: service}
}

// Post /auth/signup
func (api *AuthAPI) SignUp(c *gin.Context) {
	var payload SignUpRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	user, err := api.service.SignUp(c.Request.Context(), authports.SignUpInput{
		Name:            payload.Name,
		Email:           payload.Email,
		Password:        payload.Password,
		ConfirmPassword: payload.ConfirmPassword,
		Address:         payload.Address,
		Phone:           payload.Phone,
		Country:         payload.Country,
		City:            payload.City,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Envelope{Message: "User registered successfully", Data: usermapper.FromDomainUser(user)})
}

// Post /auth/signin
func (api *AuthAPI) SignIn(c *gin.Context) {
	var payload SignInRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	session, err := api.service.SignIn(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Envelope{
		Message: "Signed in successfully",
		Data:    usermapper.FromDomainUser(session.User),
		Token:   session.Token,
	})
}

// Post /auth/signout
func (api *AuthAPI) SignOut(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	if err := api.service.SignOut(c.Request.Context(), principal); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Envelope{Message: "Signed out successfully"})
}
