package ecommerceserver

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authdomain "github.com/Apurer/go-gin-ecommerce-api/internal/domains/auth/domain"
)

// Route is one entry of the routing table. Guards run before HandlerFunc.
type Route struct {
	Name        string
	Method      string
	Pattern     string
	Guards      []gin.HandlerFunc
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the handlers of every bounded context.
// A nil SeedAPI leaves GET /seeder unregistered.
type ApiHandleFunctions struct {
	AuthAPI     AuthAPI
	UserAPI     UserAPI
	CategoryAPI CategoryAPI
	ProductAPI  ProductAPI
	FileAPI     FileAPI
	OrderAPI    OrderAPI
	SeedAPI     *SeedAPI
}

// NewRouter builds the gin engine. middleware runs ahead of request id and
// access logging, so tracing middleware belongs there.
func NewRouter(handleFunctions ApiHandleFunctions, logger *slog.Logger, middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware...)
	router.Use(RequestID(), AccessLog(logger))
	router.HandleMethodNotAllowed = true
	router.NoRoute(func(c *gin.Context) {
		responder.NotFound(c, "route", c.Request.URL.Path)
	})

	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		handlers := append(append([]gin.HandlerFunc{}, route.Guards...), route.HandlerFunc)
		router.Handle(route.Method, route.Pattern, handlers...)
	}
	return router
}

// DefaultHandleFunc answers routes that have no handler bound.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

// Healthz reports liveness.
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func getRoutes(h ApiHandleFunctions) []Route {
	authenticated := Authenticate(h.AuthAPI.service)
	admin := []gin.HandlerFunc{authenticated, RequireRoles(authdomain.RoleAdmin)}
	sameUser := []gin.HandlerFunc{authenticated, SameUserOrAdmin("id")}
	orderOwner := []gin.HandlerFunc{authenticated, OrderOwnerOrAdmin(h.OrderAPI.service, "id")}
	bearer := []gin.HandlerFunc{authenticated}

	routes := []Route{
		{"Healthz", http.MethodGet, "/healthz", nil, Healthz},

		{"SignUp", http.MethodPost, "/auth/signup", nil, h.AuthAPI.SignUp},
		{"SignIn", http.MethodPost, "/auth/signin", nil, h.AuthAPI.SignIn},
		{"SignOut", http.MethodPost, "/auth/signout", bearer, h.AuthAPI.SignOut},

		{"ListUsers", http.MethodGet, "/users", admin, h.UserAPI.ListUsers},
		{"GetUser", http.MethodGet, "/users/:id", sameUser, h.UserAPI.GetUser},
		{"UpdateUser", http.MethodPut, "/users/:id", sameUser, h.UserAPI.UpdateUser},
		{"DeleteUser", http.MethodDelete, "/users/:id", sameUser, h.UserAPI.DeleteUser},

		{"ListCategories", http.MethodGet, "/categories", nil, h.CategoryAPI.ListCategories},
		{"CreateCategory", http.MethodPost, "/categories", admin, h.CategoryAPI.CreateCategory},

		{"ListProducts", http.MethodGet, "/products", nil, h.ProductAPI.ListProducts},
		{"GetProduct", http.MethodGet, "/products/:id", nil, h.ProductAPI.GetProduct},
		{"CreateProduct", http.MethodPost, "/products", admin, h.ProductAPI.CreateProduct},
		{"UpdateProduct", http.MethodPut, "/products/:id", admin, h.ProductAPI.UpdateProduct},
		{"DeleteProduct", http.MethodDelete, "/products/:id", admin, h.ProductAPI.DeleteProduct},

		{"UploadProductImage", http.MethodPost, "/files/upload/:id", admin, h.FileAPI.UploadProductImage},

		{"ListOrders", http.MethodGet, "/orders", bearer, h.OrderAPI.ListOrders},
		{"GetOrder", http.MethodGet, "/orders/:id", orderOwner, h.OrderAPI.GetOrder},
		{"PlaceOrder", http.MethodPost, "/orders", bearer, h.OrderAPI.PlaceOrder},
		{"DeleteOrder", http.MethodDelete, "/orders/:id", orderOwner, h.OrderAPI.DeleteOrder},
	}
	if h.SeedAPI != nil {
		routes = append(routes, Route{"Seed", http.MethodGet, "/seeder", nil, h.SeedAPI.Seed})
	}
	return routes
}
