package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	categorydomain "github.com/Apurer/go-gin-ecommerce-api/internal/domains/categories/domain"
)

// DefaultImageURL marks a product that has no uploaded image yet.
const DefaultImageURL = "No image"

var (
	ErrInvalidName        = errors.New("name must be between 3 and 50 characters")
	ErrInvalidDescription = errors.New("description must be between 10 and 255 characters")
	ErrInvalidPrice       = errors.New("price must be at least 0.01 with at most two decimals")
	ErrInvalidStock       = errors.New("stock must be zero or greater")
	ErrMissingCategory    = errors.New("product must belong to a category")
)

var minPrice = decimal.RequireFromString("0.01")

// Product is a catalog item. Price is kept at two decimal places.
type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	ImgURL      string
	Category    categorydomain.Category
}

// Attributes are the editable fields of a product.
type Attributes struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	ImgURL      string
}

// NewProduct validates attrs and assigns a fresh identifier.
func NewProduct(attrs Attributes, category categorydomain.Category) (*Product, error) {
	p := &Product{ID: uuid.New()}
	if err := p.Apply(attrs); err != nil {
		return nil, err
	}
	if err := p.SetCategory(category); err != nil {
		return nil, err
	}
	return p, nil
}

// Apply validates every attribute before assigning any of them.
func (p *Product) Apply(attrs Attributes) error {
	attrs.Name = strings.TrimSpace(attrs.Name)
	attrs.Description = strings.TrimSpace(attrs.Description)
	attrs.ImgURL = strings.TrimSpace(attrs.ImgURL)

	if n := utf8.RuneCountInString(attrs.Name); n < 3 || n > 50 {
		return ErrInvalidName
	}
	if n := utf8.RuneCountInString(attrs.Description); n < 10 || n > 255 {
		return ErrInvalidDescription
	}
	if attrs.Price.LessThan(minPrice) || !attrs.Price.Equal(attrs.Price.Round(2)) {
		return ErrInvalidPrice
	}
	if attrs.Stock < 0 {
		return ErrInvalidStock
	}
	if attrs.ImgURL == "" {
		attrs.ImgURL = DefaultImageURL
	}
	p.Name = attrs.Name
	p.Description = attrs.Description
	p.Price = attrs.Price.Round(2)
	p.Stock = attrs.Stock
	p.ImgURL = attrs.ImgURL
	return nil
}

func (p *Product) Attributes() Attributes {
	return Attributes{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		ImgURL:      p.ImgURL,
	}
}

func (p *Product) SetCategory(category categorydomain.Category) error {
	if category.ID == uuid.Nil {
		return ErrMissingCategory
	}
	p.Category = category
	return nil
}

func (p *Product) String() string {
	return fmt.Sprintf("%s (%s)", p.Name, p.ID)
}
