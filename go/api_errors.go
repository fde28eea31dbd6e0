package ecommerceserver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	authapp "github.com/Apurer/go-gin-ecommerce-api/internal/domains/auth/application"
	authdomain "github.com/Apurer/go-gin-ecommerce-api/internal/domains/auth/domain"
	categoryapp "github.com/Apurer/go-gin-ecommerce-api/internal/domains/categories/application"
	categoryports "github.com/Apurer/go-gin-ecommerce-api/internal/domains/categories/ports"
	filesapp "github.com/Apurer/go-gin-ecommerce-api/internal/domains/files/application"
	filesports "github.com/Apurer/go-gin-ecommerce-api/internal/domains/files/ports"
	orderapp "github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/application"
	orderdomain "github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/ports"
	productapp "github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/application"
	productports "github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/ports"
	userapp "github.com/Apurer/go-gin-ecommerce-api/internal/domains/users/application"
	userports "github.com/Apurer/go-gin-ecommerce-api/internal/domains/users/ports"
	apierrors "github.com/Apurer/go-gin-ecommerce-api/internal/shared/errors"
	"github.com/Apurer/go-gin-ecommerce-api/internal/shared/pagination"
)

// responder resolves errors from every bounded context. Mappers run in order,
// so the more specific ones come first.
var responder = apierrors.NewChainedResponder("",
	mapBindingError,
	mapAuthError,
	mapOrderError,
	mapNotFound,
	mapConflict,
	mapUnavailable,
	mapInvalidInput,
)

func respondError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

// respondBadRequest covers malformed bodies, params and query strings.
func respondBadRequest(c *gin.Context, err error) {
	if problem, ok := mapBindingError(err); ok {
		responder.Respond(c, problem)
		return
	}
	responder.BadRequest(c, err.Error())
}

func mapBindingError(err error) (apierrors.ProblemDetail, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apierrors.ProblemDetail{}, false
	}
	fields := make(map[string]string, len(verrs))
	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fieldMessage(fe)
		fields[fe.Field()] = msg
		details = append(details, fe.Field()+" "+msg)
	}
	return apierrors.NewValidationProblem(fields).WithDetail(strings.Join(details, "; ")), true
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "uuid":
		return "must be a valid UUID"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	default:
		return "failed on " + fe.Tag()
	}
}

func mapAuthError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, authdomain.ErrMissingToken),
		errors.Is(err, authdomain.ErrInvalidToken),
		errors.Is(err, authdomain.ErrTokenExpired),
		errors.Is(err, authdomain.ErrTokenRevoked):
		return apierrors.ErrUnauthorized.WithDetail(err.Error()), true
	case errors.Is(err, authdomain.ErrInvalidCredentials):
		return apierrors.ErrBadRequest.WithDetail("Email or password incorrect"), true
	case errors.Is(err, authdomain.ErrUnauthorized):
		return apierrors.ErrForbidden.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapOrderError(err error) (apierrors.ProblemDetail, bool) {
	var stockErr *orderdomain.StockError
	if errors.As(err, &stockErr) {
		return apierrors.ErrInsufficientStock.
			WithDetail(stockErr.Error()).
			WithExtension("productId", stockErr.ProductID.String()).
			WithExtension("available", stockErr.Available), true
	}
	var missing *orderapp.MissingProductsError
	if errors.As(err, &missing) {
		ids := make([]string, 0, len(missing.IDs))
		for _, id := range missing.IDs {
			ids = append(ids, id.String())
		}
		return apierrors.ErrNotFound.
			WithDetail(missing.Error()).
			WithExtension("productIds", ids), true
	}
	if errors.Is(err, orderdomain.ErrInsufficientStock) {
		return apierrors.ErrInsufficientStock.WithDetail(err.Error()), true
	}
	if errors.Is(err, orderports.ErrIdempotencyConflict) {
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapNotFound(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, orderports.ErrNotFound) ||
		errors.Is(err, orderports.ErrUserNotFound) ||
		errors.Is(err, orderports.ErrProductNotFound) ||
		errors.Is(err, userports.ErrNotFound) ||
		errors.Is(err, productports.ErrNotFound) ||
		errors.Is(err, categoryports.ErrNotFound) {
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapConflict(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, userports.ErrConflict) ||
		errors.Is(err, userports.ErrHasOrders) ||
		errors.Is(err, productports.ErrConflict) ||
		errors.Is(err, productports.ErrInUse) ||
		errors.Is(err, categoryports.ErrConflict) {
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapUnavailable(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, filesports.ErrUnavailable) {
		return apierrors.ErrUnavailable.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapInvalidInput(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, orderapp.ErrInvalidInput) ||
		errors.Is(err, userapp.ErrInvalidInput) ||
		errors.Is(err, authapp.ErrInvalidInput) ||
		errors.Is(err, categoryapp.ErrInvalidInput) ||
		errors.Is(err, productapp.ErrInvalidInput) ||
		errors.Is(err, filesapp.ErrInvalidInput) ||
		errors.Is(err, authdomain.ErrWeakPassword) ||
		errors.Is(err, authdomain.ErrPasswordMismatch) ||
		errors.Is(err, pagination.ErrInvalid) ||
		errors.Is(err, pagination.ErrPageOutOfRange) {
		return apierrors.ErrBadRequest.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func invalidParam(name, value string) error {
	return fmt.Errorf("%s must be a valid UUID, got %q", name, value)
}
