package ports

import (
	"context"
	"time"

	authdomain "github.com/Apurer/go-gin-ecommerce-api/internal/domains/auth/domain"
	userdomain "github.com/Apurer/go-gin-ecommerce-api/internal/domains/users/domain"
)

// SignUpInput is the registration form.
type SignUpInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	Address         string
	Phone           int64
	Country         string
	City            string
}

// Session is the outcome of a successful sign-in.
type Session struct {
	User      *userdomain.User
	Token     string
	ExpiresAt time.Time
}

// Service exposes authentication use cases to adapters.
type Service interface {
	SignUp(ctx context.Context, input SignUpInput) (*userdomain.User, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, principal authdomain.Principal) error
	Authenticate(ctx context.Context, token string) (authdomain.Principal, error)
}
