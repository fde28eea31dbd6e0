package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of access levels a principal can hold.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

var (
	// ErrUnauthorized is an authorization denial for an authenticated caller.
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidRole  = errors.New("role is invalid")
)

// ParseRole accepts the lowercase role names carried in tokens.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, raw)
	}
}

// RoleFor maps the persisted admin flag to a role.
func RoleFor(isAdmin bool) Role {
	if isAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// Principal is the authenticated caller extracted from a bearer token.
type Principal struct {
	UserID    uuid.UUID
	Email     string
	Role      Role
	TokenID   string
	ExpiresAt time.Time
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Authorize lets admins act on anything and users act on what they own.
func Authorize(p Principal, ownerID uuid.UUID) error {
	if p.IsAdmin() {
		return nil
	}
	if p.Role == RoleUser && p.UserID != uuid.Nil && p.UserID == ownerID {
		return nil
	}
	return ErrUnauthorized
}

// RequireRole passes when the principal holds one of roles.
func RequireRole(p Principal, roles ...Role) error {
	for _, r := range roles {
		if p.Role == r {
			return nil
		}
	}
	return ErrUnauthorized
}
