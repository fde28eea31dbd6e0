package bcrypt

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	authdomain "github.com/Apurer/go-gin-ecommerce-api/internal/domains/auth/domain"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/auth/ports"
)

const DefaultCost = 10

var _ ports.PasswordHasher = (*Hasher)(nil)

type Hasher struct {
	cost int
}

func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

func (h *Hasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h *Hasher) Compare(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return authdomain.ErrInvalidCredentials
	}
	return err
}
