package ecommerceserver

import (
	"github.com/shopspring/decimal"
)

// Envelope is the success body shared by every endpoint.
type Envelope struct {
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	ID      string `json:"id,omitempty"`
	Token   string `json:"token,omitempty"`
}

type SignUpRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
	Address         string `json:"address" binding:"required"`
	Phone           int64  `json:"phone" binding:"required"`
	Country         string `json:"country" binding:"required"`
	City            string `json:"city" binding:"required"`
}

type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest is a partial update; absent fields are left as they are.
type UpdateUserRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *int64  `json:"phone"`
	Country *string `json:"country"`
	City    *string `json:"city"`
	Address *string `json:"address"`
	IsAdmin *bool   `json:"isAdmin"`
}

type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,max=50"`
}

type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Price       decimal.Decimal `json:"price"`
	Stock       *int            `json:"stock" binding:"required"`
	ImgURL      string          `json:"imgUrl"`
	Category    string          `json:"category" binding:"required"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	ImgURL      *string          `json:"imgUrl"`
	Category    *string          `json:"category"`
}

type OrderLineRequest struct {
	ID       string `json:"id" binding:"required"`
	Quantity int    `json:"quantity"`
}

// PlaceOrderRequest names the customer in "user" and the lines in "products".
type PlaceOrderRequest struct {
	User     string             `json:"user" binding:"required"`
	Products []OrderLineRequest `json:"products" binding:"required"`
}
