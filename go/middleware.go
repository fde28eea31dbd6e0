package ecommerceserver

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authdomain "github.com/Apurer/go-gin-ecommerce-api/internal/domains/auth/domain"
	authports "github.com/Apurer/go-gin-ecommerce-api/internal/domains/auth/ports"
	orderports "github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-ecommerce-api/internal/shared/pagination"
)

const (
	HeaderRequestID = "X-Request-ID"

	requestIDKey = "requestId"
	principalKey = "principal"
)

// RequestID propagates the caller's X-Request-ID or mints a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(HeaderRequestID, rid)
		c.Next()
	}
}

// AccessLog writes one line per request once the handler chain has finished.
func AccessLog(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}
		logger.LogAttrs(c.Request.Context(), level, "http request",
			slog.String("request_id", c.GetString(requestIDKey)),
			slog.String("http.method", c.Request.Method),
			slog.String("http.route", c.FullPath()),
			slog.String("http.path", c.Request.URL.Path),
			slog.Int("http.status", status),
			slog.Duration("duration", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}

// Authenticate resolves the bearer token into a principal or aborts with 401.
func Authenticate(auth authports.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := auth.Authenticate(c.Request.Context(), bearerToken(c.GetHeader("Authorization")))
		if err != nil {
			respondError(c, err)
			return
		}
		c.Set(principalKey, principal)
		c.Next()
	}
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		if header == "" {
			return ""
		}
		// Keep the raw value so verification rejects it as an invalid token.
		return header
	}
	return strings.TrimSpace(token)
}

// RequireRoles lets the request through when the principal holds one of roles.
func RequireRoles(roles ...authdomain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := principalFrom(c)
		if !ok {
			respondError(c, authdomain.ErrMissingToken)
			return
		}
		if err := authdomain.RequireRole(principal, roles...); err != nil {
			respondError(c, err)
			return
		}
		c.Next()
	}
}

// SameUserOrAdmin restricts /users/:id style routes to the account itself.
func SameUserOrAdmin(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := principalFrom(c)
		if !ok {
			respondError(c, authdomain.ErrMissingToken)
			return
		}
		id, ok := parseUUIDParam(c, param)
		if !ok {
			return
		}
		if err := authdomain.Authorize(principal, id); err != nil {
			respondError(c, err)
			return
		}
		c.Next()
	}
}

// OrderOwnerOrAdmin loads the order named by param and checks who owns it.
// Admins skip the lookup.
func OrderOwnerOrAdmin(orders orderports.Service, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := principalFrom(c)
		if !ok {
			respondError(c, authdomain.ErrMissingToken)
			return
		}
		id, ok := parseUUIDParam(c, param)
		if !ok {
			return
		}
		if principal.IsAdmin() {
			c.Next()
			return
		}
		order, err := orders.FindByID(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		if err := authdomain.Authorize(principal, order.Customer.ID); err != nil {
			respondError(c, err)
			return
		}
		c.Next()
	}
}

func principalFrom(c *gin.Context) (authdomain.Principal, bool) {
	value, ok := c.Get(principalKey)
	if !ok {
		return authdomain.Principal{}, false
	}
	principal, ok := value.(authdomain.Principal)
	return principal, ok
}

// mustPrincipal is for handlers mounted behind Authenticate.
func mustPrincipal(c *gin.Context) (authdomain.Principal, bool) {
	principal, ok := principalFrom(c)
	if !ok {
		respondError(c, authdomain.ErrMissingToken)
	}
	return principal, ok
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	raw := c.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		respondBadRequest(c, invalidParam(name, raw))
		return uuid.Nil, false
	}
	return id, true
}

func parsePage(c *gin.Context) (pagination.Page, bool) {
	page, err := pagination.Parse(c.Query("page"), c.Query("limit"))
	if err != nil {
		respondBadRequest(c, err)
		return pagination.Page{}, false
	}
	return page, true
}
