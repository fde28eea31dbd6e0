// Package seed loads the demo catalog, accounts, and a first order.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	authdomain "github.com/Apurer/go-gin-ecommerce-api/internal/domains/auth/domain"
	authports "github.com/Apurer/go-gin-ecommerce-api/internal/domains/auth/ports"
	categoryports "github.com/Apurer/go-gin-ecommerce-api/internal/domains/categories/ports"
	orderdomain "github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/ports"
	productdomain "github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/domain"
	productports "github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/ports"
	userdomain "github.com/Apurer/go-gin-ecommerce-api/internal/domains/users/domain"
	userports "github.com/Apurer/go-gin-ecommerce-api/internal/domains/users/ports"
	"github.com/Apurer/go-gin-ecommerce-api/internal/shared/pagination"
)

// DefaultPassword is the password of every seeded account.
const DefaultPassword = "Pass123!"

//go:embed catalog.json
var catalogJSON []byte

type catalog struct {
	Categories []struct {
		Name     string `json:"name"`
		Products []struct {
			Name        string          `json:"name"`
			Description string          `json:"description"`
			Price       decimal.Decimal `json:"price"`
			Stock       int             `json:"stock"`
		} `json:"products"`
	} `json:"categories"`
	Users []struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   int64  `json:"phone"`
		Country string `json:"country"`
		City    string `json:"city"`
		Address string `json:"address"`
		IsAdmin bool   `json:"isAdmin"`
	} `json:"users"`
}

// Result summarizes one seeding run.
type Result struct {
	Categories int        `json:"categories"`
	Products   int        `json:"products"`
	Users      int        `json:"users"`
	OrderID    *uuid.UUID `json:"orderId,omitempty"`
}

type Seeder struct {
	categories categoryports.Service
	products   productports.Repository
	users      userports.Repository
	hasher     authports.PasswordHasher
	orders     orderports.Service
	logger     *slog.Logger
}

func New(
	categories categoryports.Service,
	products productports.Repository,
	users userports.Repository,
	hasher authports.PasswordHasher,
	orders orderports.Service,
	logger *slog.Logger,
) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{categories: categories, products: products, users: users, hasher: hasher, orders: orders, logger: logger}
}

// Run is safe to repeat: products are upserted by name, users by email, and
// the admin order is placed only when the admin has none.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	var data catalog
	if err := json.Unmarshal(catalogJSON, &data); err != nil {
		return Result{}, fmt.Errorf("decode seed catalog: %w", err)
	}
	var result Result

	var firstProducts []*productdomain.Product
	for _, c := range data.Categories {
		category, err := s.categories.Ensure(ctx, c.Name)
		if err != nil {
			return result, fmt.Errorf("seed category %q: %w", c.Name, err)
		}
		result.Categories++
		for _, p := range c.Products {
			product, err := productdomain.NewProduct(productdomain.Attributes{
				Name:        p.Name,
				Description: p.Description,
				Price:       p.Price,
				Stock:       p.Stock,
			}, *category)
			if err != nil {
				return result, fmt.Errorf("seed product %q: %w", p.Name, err)
			}
			saved, err := s.products.Upsert(ctx, product)
			if err != nil {
				return result, fmt.Errorf("seed product %q: %w", p.Name, err)
			}
			result.Products++
			if len(firstProducts) < 2 {
				firstProducts = append(firstProducts, saved)
			}
		}
	}

	hash, err := s.hasher.Hash(DefaultPassword)
	if err != nil {
		return result, err
	}
	var admin *userdomain.User
	for _, u := range data.Users {
		user, err := s.upsertUser(ctx, userdomain.Profile{
			Name:    u.Name,
			Email:   u.Email,
			Phone:   u.Phone,
			Country: u.Country,
			City:    u.City,
			Address: u.Address,
		}, hash, u.IsAdmin)
		if err != nil {
			return result, fmt.Errorf("seed user %q: %w", u.Email, err)
		}
		result.Users++
		if u.IsAdmin && admin == nil {
			admin = user
		}
	}

	if admin != nil && len(firstProducts) == 2 {
		orderID, err := s.ensureAdminOrder(ctx, admin, firstProducts)
		if err != nil {
			return result, err
		}
		result.OrderID = orderID
	}

	s.logger.InfoContext(ctx, "seed completed",
		slog.Int("categories", result.Categories),
		slog.Int("products", result.Products),
		slog.Int("users", result.Users),
		slog.Bool("order_placed", result.OrderID != nil),
	)
	return result, nil
}

func (s *Seeder) upsertUser(ctx context.Context, profile userdomain.Profile, hash string, isAdmin bool) (*userdomain.User, error) {
	existing, err := s.users.GetByEmail(ctx, profile.Email)
	if err != nil && !errors.Is(err, userports.ErrNotFound) {
		return nil, err
	}
	if existing == nil {
		user, err := userdomain.NewUser(profile, hash)
		if err != nil {
			return nil, err
		}
		user.IsAdmin = isAdmin
		return s.users.Create(ctx, user)
	}
	if err := existing.ApplyProfile(profile); err != nil {
		return nil, err
	}
	existing.PasswordHash = hash
	existing.IsAdmin = isAdmin
	return s.users.Save(ctx, existing)
}

func (s *Seeder) ensureAdminOrder(ctx context.Context, admin *userdomain.User, products []*productdomain.Product) (*uuid.UUID, error) {
	caller := authdomain.Principal{UserID: admin.ID, Email: admin.Email, Role: authdomain.RoleAdmin}
	_, err := s.orders.FindAll(ctx, caller, pagination.Page{Page: 1, Limit: 1})
	if err == nil {
		return nil, nil
	}
	if !errors.Is(err, orderports.ErrNotFound) {
		return nil, err
	}
	order, err := s.orders.PlaceOrder(ctx, orderports.PlaceOrderCommand{
		UserID: admin.ID,
		Lines: []orderdomain.Line{
			{ProductID: products[0].ID, Quantity: 2},
			{ProductID: products[1].ID, Quantity: 5},
		},
		Caller: caller,
	})
	if err != nil {
		return nil, fmt.Errorf("seed admin order: %w", err)
	}
	return &order.ID, nil
}
