package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	authdomain "github.com/Apurer/go-gin-ecommerce-api/internal/domains/auth/domain"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/auth/ports"
	userdomain "github.com/Apurer/go-gin-ecommerce-api/internal/domains/users/domain"
	userports "github.com/Apurer/go-gin-ecommerce-api/internal/domains/users/ports"
)

var (
	// ErrInvalidInput signals the registration form violated an invariant.
	ErrInvalidInput = errors.New("invalid signup input")
)

// Service registers accounts and issues, verifies and revokes bearer tokens.
type Service struct {
	users       userports.Repository
	hasher      ports.PasswordHasher
	tokens      ports.TokenIssuer
	revocations ports.RevocationStore
}

func NewService(users userports.Repository, hasher ports.PasswordHasher, tokens ports.TokenIssuer, revocations ports.RevocationStore) *Service {
	if revocations == nil {
		revocations = ports.NoopRevocationStore
	}
	return &Service{users: users, hasher: hasher, tokens: tokens, revocations: revocations}
}

func (s *Service) SignUp(ctx context.Context, input ports.SignUpInput) (*userdomain.User, error) {
	if err := authdomain.ValidatePassword(input.Password); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	profile := userdomain.Profile{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Country: input.Country,
		City:    input.City,
		Address: input.Address,
	}
	var probe userdomain.User
	if err := probe.ApplyProfile(profile); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	taken, err := s.users.ExistsByEmailOrPhone(ctx, probe.Email, probe.Phone, probe.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, userports.ErrConflict
	}
	if input.Password != input.ConfirmPassword {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, authdomain.ErrPasswordMismatch)
	}
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	user, err := userdomain.NewUser(profile, hash)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return s.users.Create(ctx, user)
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*ports.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, authdomain.ErrInvalidCredentials
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userports.ErrNotFound) {
			return nil, authdomain.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, authdomain.ErrInvalidCredentials
	}
	token, principal, err := s.tokens.Issue(authdomain.Principal{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role(),
	})
	if err != nil {
		return nil, err
	}
	return &ports.Session{User: user, Token: token, ExpiresAt: principal.ExpiresAt}, nil
}

func (s *Service) SignOut(ctx context.Context, principal authdomain.Principal) error {
	if strings.TrimSpace(principal.TokenID) == "" {
		return authdomain.ErrInvalidToken
	}
	return s.revocations.Revoke(ctx, principal.TokenID, principal.UserID, principal.ExpiresAt)
}

// Authenticate verifies the signature and expiry, then rejects signed-out tokens.
func (s *Service) Authenticate(ctx context.Context, token string) (authdomain.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return authdomain.Principal{}, authdomain.ErrMissingToken
	}
	principal, err := s.tokens.Parse(token)
	if err != nil {
		return authdomain.Principal{}, err
	}
	revoked, err := s.revocations.IsRevoked(ctx, principal.TokenID)
	if err != nil {
		return authdomain.Principal{}, err
	}
	if revoked {
		return authdomain.Principal{}, authdomain.ErrTokenRevoked
	}
	return principal, nil
}

var _ ports.Service = (*Service)(nil)
