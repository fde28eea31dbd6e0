package domain

import (
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	authdomain "github.com/Apurer/go-gin-ecommerce-api/internal/domains/auth/domain"
)

var (
	ErrInvalidName    = errors.New("name must be between 3 and 80 characters")
	ErrInvalidEmail   = errors.New("email is invalid")
	ErrInvalidPhone   = errors.New("phone must be a positive number")
	ErrInvalidCountry = errors.New("country must be between 5 and 20 characters")
	ErrInvalidCity    = errors.New("city must be between 5 and 20 characters")
	ErrInvalidAddress = errors.New("address must be between 3 and 80 characters")
	ErrEmptyPassword  = errors.New("password hash is required")
)

// User is a storefront account. PasswordHash never leaves the service layer.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Phone        int64
	Country      string
	City         string
	Address      string
	IsAdmin      bool
	CreatedAt    time.Time
}

// Profile is the editable part of a user.
type Profile struct {
	Name    string
	Email   string
	Phone   int64
	Country string
	City    string
	Address string
}

// NewUser validates the profile and assigns a fresh identifier.
func NewUser(profile Profile, passwordHash string) (*User, error) {
	user := &User{ID: uuid.New(), PasswordHash: passwordHash}
	if err := user.ApplyProfile(profile); err != nil {
		return nil, err
	}
	if strings.TrimSpace(passwordHash) == "" {
		return nil, ErrEmptyPassword
	}
	return user, nil
}

// ApplyProfile trims and validates every profile field before assigning it.
func (u *User) ApplyProfile(p Profile) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.Country = strings.TrimSpace(p.Country)
	p.City = strings.TrimSpace(p.City)
	p.Address = strings.TrimSpace(p.Address)

	if !lengthBetween(p.Name, 3, 80) {
		return ErrInvalidName
	}
	if _, err := mail.ParseAddress(p.Email); err != nil || !strings.Contains(p.Email, "@") {
		return ErrInvalidEmail
	}
	if p.Phone <= 0 {
		return ErrInvalidPhone
	}
	if !lengthBetween(p.Country, 5, 20) {
		return ErrInvalidCountry
	}
	if !lengthBetween(p.City, 5, 20) {
		return ErrInvalidCity
	}
	if !lengthBetween(p.Address, 3, 80) {
		return ErrInvalidAddress
	}
	u.Name = p.Name
	u.Email = p.Email
	u.Phone = p.Phone
	u.Country = p.Country
	u.City = p.City
	u.Address = p.Address
	return nil
}

// Profile returns the current editable fields.
func (u *User) Profile() Profile {
	return Profile{
		Name:    u.Name,
		Email:   u.Email,
		Phone:   u.Phone,
		Country: u.Country,
		City:    u.City,
		Address: u.Address,
	}
}

func (u *User) Role() authdomain.Role {
	return authdomain.RoleFor(u.IsAdmin)
}

// Validate re-applies the profile invariants, used before persistence.
func (u *User) Validate() error {
	if err := u.ApplyProfile(u.Profile()); err != nil {
		return err
	}
	if strings.TrimSpace(u.PasswordHash) == "" {
		return ErrEmptyPassword
	}
	return nil
}

func lengthBetween(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}
