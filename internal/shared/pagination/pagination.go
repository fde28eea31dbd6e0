// Package pagination holds the page/limit window shared by list endpoints.
package pagination

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 5
)

var (
	// ErrInvalid is returned for non-numeric or non-positive page/limit values.
	ErrInvalid = errors.New("page and limit must be positive integers")
	// ErrNoResults is returned by Check when the collection is empty.
	ErrNoResults = errors.New("no results")
	// ErrPageOutOfRange is returned by Check when the page lies past the last one.
	ErrPageOutOfRange = errors.New("page out of range")
)

// Page is a 1-based window over a collection.
type Page struct {
	Page  int
	Limit int
}

// New validates explicit page and limit values. A page whose offset does not
// fit in an int is rejected.
func New(page, limit int) (Page, error) {
	if page < 1 || limit < 1 {
		return Page{}, ErrInvalid
	}
	if page-1 > math.MaxInt/limit {
		return Page{}, fmt.Errorf("%w: page %d is too large for limit %d", ErrInvalid, page, limit)
	}
	return Page{Page: page, Limit: limit}, nil
}

// Default returns the first page with the default limit.
func Default() Page {
	return Page{Page: DefaultPage, Limit: DefaultLimit}
}

// Parse reads raw query values; empty values fall back to the defaults.
func Parse(rawPage, rawLimit string) (Page, error) {
	page, err := parseOr(rawPage, DefaultPage)
	if err != nil {
		return Page{}, err
	}
	limit, err := parseOr(rawLimit, DefaultLimit)
	if err != nil {
		return Page{}, err
	}
	return New(page, limit)
}

// Offset is the number of rows to skip.
func (p Page) Offset() int {
	if p.Page < 1 || p.Limit < 1 || p.Page-1 > math.MaxInt/p.Limit {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Window returns items[offset:offset+limit] clamped to the slice bounds. A
// limit below one means no upper bound.
func Window[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && limit < end-offset {
		end = offset + limit
	}
	return items[offset:end]
}

// MaxPage is the last page that holds rows for total items.
func (p Page) MaxPage(total int64) int {
	if p.Limit < 1 || total <= 0 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}

// Check rejects empty collections and pages past the end.
func (p Page) Check(total int64) error {
	if total <= 0 {
		return ErrNoResults
	}
	if max := p.MaxPage(total); p.Page > max {
		return fmt.Errorf("%w: the requested page (%d) exceeds the maximum (%d)", ErrPageOutOfRange, p.Page, max)
	}
	return nil
}

func parseOr(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ErrInvalid
	}
	return v, nil
}
