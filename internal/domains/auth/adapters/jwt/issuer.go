// Package jwt signs and verifies HS256 bearer tokens carrying {id, email, role}.
package jwt

import (
	"errors"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	authdomain "github.com/Apurer/go-gin-ecommerce-api/internal/domains/auth/domain"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/auth/ports"
)

// DefaultTTL is the token lifetime when none is configured.
const DefaultTTL = time.Hour

var _ ports.TokenIssuer = (*Issuer)(nil)

type claims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	gojwt.RegisteredClaims
}

// Issuer is an HMAC-SHA256 token issuer.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// WithClock overrides the time source for deterministic testing.
func (i *Issuer) WithClock(now func() time.Time) {
	if now != nil {
		i.now = now
	}
}

func (i *Issuer) Issue(p authdomain.Principal) (string, authdomain.Principal, error) {
	issuedAt := i.now().UTC().Truncate(time.Second)
	p.TokenID = uuid.NewString()
	p.ExpiresAt = issuedAt.Add(i.ttl)
	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims{
		ID:    p.UserID.String(),
		Email: p.Email,
		Role:  string(p.Role),
		RegisteredClaims: gojwt.RegisteredClaims{
			ID:        p.TokenID,
			Subject:   p.UserID.String(),
			IssuedAt:  gojwt.NewNumericDate(issuedAt),
			ExpiresAt: gojwt.NewNumericDate(p.ExpiresAt),
		},
	})
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", authdomain.Principal{}, err
	}
	return signed, p, nil
}

func (i *Issuer) Parse(raw string) (authdomain.Principal, error) {
	var c claims
	_, err := gojwt.ParseWithClaims(raw, &c, func(*gojwt.Token) (any, error) {
		return i.secret, nil
	},
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, gojwt.ErrTokenExpired) {
			return authdomain.Principal{}, authdomain.ErrTokenExpired
		}
		return authdomain.Principal{}, authdomain.ErrInvalidToken
	}
	userID, err := uuid.Parse(c.ID)
	if err != nil {
		return authdomain.Principal{}, authdomain.ErrInvalidToken
	}
	role, err := authdomain.ParseRole(c.Role)
	if err != nil {
		return authdomain.Principal{}, authdomain.ErrInvalidToken
	}
	principal := authdomain.Principal{
		UserID:  userID,
		Email:   c.Email,
		Role:    role,
		TokenID: c.RegisteredClaims.ID,
	}
	if c.ExpiresAt != nil {
		principal.ExpiresAt = c.ExpiresAt.Time
	}
	return principal, nil
}
