package domain

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	ErrInvalidCredentials = errors.New("email or password incorrect")
	ErrWeakPassword       = errors.New("password must be 8 to 15 characters and contain a lowercase letter, an uppercase letter, a number and one of !@#$%^&*")
	ErrPasswordMismatch   = errors.New("password confirmation does not match")

	ErrMissingToken = errors.New("bearer token is required")
	ErrInvalidToken = errors.New("token is invalid")
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenRevoked = errors.New("token has been revoked")
)

const passwordSymbols = "!@#$%^&*"

// ValidatePassword enforces the signup password policy.
func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < 8 || n > 15 {
		return ErrWeakPassword
	}
	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}
	if !lower || !upper || !digit || !symbol {
		return ErrWeakPassword
	}
	return nil
}
