package domain

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyOrder        = errors.New("order must contain at least one product")
	ErrMissingUser       = errors.New("order must name a user")
	ErrInvalidQuantity   = errors.New("quantity must be a positive integer")
	ErrMissingProduct    = errors.New("order line must name a product")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Customer is the owner of an order as seen from the orders context.
type Customer struct {
	ID    uuid.UUID
	Name  string
	Email string
}

// Product is the catalog row an order line reads and decrements.
type Product struct {
	ID    uuid.UUID
	Name  string
	Price decimal.Decimal
	Stock int
}

// Line is one requested product and quantity.
type Line struct {
	ProductID uuid.UUID
	Quantity  int
}

// Detail is a persisted order line; Subtotal snapshots the price at order time.
type Detail struct {
	ID       uuid.UUID
	Quantity int
	Subtotal decimal.Decimal
	Product  Product
}

type Order struct {
	ID       uuid.UUID
	Date     time.Time
	Total    decimal.Decimal
	Customer Customer
	Details  []Detail
}

// StockError reports the first product that cannot cover its quantity.
type StockError struct {
	ProductID uuid.UUID
	Name      string
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s. Available: %d", e.Name, e.Available)
}

func (e *StockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// ValidateNotEmpty rejects an order without lines. It runs before the caller
// is authorized; the per-line checks in ValidateLines run after.
func ValidateNotEmpty(lines []Line) error {
	if len(lines) == 0 {
		return ErrEmptyOrder
	}
	return nil
}

// ValidateLines checks that lines is non-empty, every line names a product and
// every quantity is positive.
func ValidateLines(lines []Line) error {
	if err := ValidateNotEmpty(lines); err != nil {
		return err
	}
	for i, l := range lines {
		if l.ProductID == uuid.Nil {
			return fmt.Errorf("%w: line %d", ErrMissingProduct, i+1)
		}
		if l.Quantity <= 0 {
			return fmt.Errorf("%w: product %s", ErrInvalidQuantity, l.ProductID)
		}
	}
	return nil
}

// CoalesceLines sums quantities of repeated product ids, keeping first-seen order.
func CoalesceLines(lines []Line) []Line {
	index := make(map[uuid.UUID]int, len(lines))
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		if i, ok := index[l.ProductID]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		index[l.ProductID] = len(out)
		out = append(out, l)
	}
	return out
}

// ProductIDs returns the distinct ids of lines sorted ascending.
func ProductIDs(lines []Line) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(lines))
	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ProductID]; ok {
			continue
		}
		seen[l.ProductID] = struct{}{}
		ids = append(ids, l.ProductID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

// Subtotal is price times quantity rounded to cents.
func Subtotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// Place builds order id from coalesced lines against locked product rows.
// Every line is checked for stock before any detail is produced. The returned
// map holds the new stock level of each product.
func Place(id uuid.UUID, customer Customer, lines []Line, products map[uuid.UUID]Product, now time.Time) (*Order, map[uuid.UUID]int, error) {
	if len(lines) == 0 {
		return nil, nil, ErrEmptyOrder
	}
	for _, l := range lines {
		p, ok := products[l.ProductID]
		if !ok {
			return nil, nil, fmt.Errorf("product %s was not loaded", l.ProductID)
		}
		if p.Stock < l.Quantity {
			return nil, nil, &StockError{ProductID: p.ID, Name: p.Name, Available: p.Stock}
		}
	}

	order := &Order{
		ID:       id,
		Date:     now,
		Customer: customer,
		Details:  make([]Detail, 0, len(lines)),
	}
	stock := make(map[uuid.UUID]int, len(lines))
	total := decimal.Zero
	for _, l := range lines {
		p := products[l.ProductID]
		subtotal := Subtotal(p.Price, l.Quantity)
		total = total.Add(subtotal)
		p.Stock -= l.Quantity
		stock[p.ID] = p.Stock
		order.Details = append(order.Details, Detail{
			ID:       uuid.New(),
			Quantity: l.Quantity,
			Subtotal: subtotal,
			Product:  p,
		})
	}
	order.Total = total.Round(2)
	return order, stock, nil
}
