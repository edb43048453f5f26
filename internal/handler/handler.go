package handler

import (
	"errors"
	"net/http"
	"strconv"

	"ecofood/internal/middleware"
	"ecofood/internal/repository"
	"ecofood/internal/service"
	"ecofood/pkg/jwtutil"

	"github.com/labstack/echo/v4"
)

// Handler holds the services behind the HTTP surface
type Handler struct {
	accounts *service.AccountService
	products *service.ProductService
	orders   *service.OrderService
	jwt      *jwtutil.JWTUtil
}

func New(accounts *service.AccountService, products *service.ProductService, orders *service.OrderService, jwt *jwtutil.JWTUtil) *Handler {
	return &Handler{
		accounts: accounts,
		products: products,
		orders:   orders,
		jwt:      jwt,
	}
}

// httpError maps service and repository errors onto HTTP responses
func httpError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "record not found"})
	case errors.Is(err, service.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid input"})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "operation not allowed"})
	case errors.Is(err, service.ErrInsufficientStock):
		return c.JSON(http.StatusConflict, echo.Map{"error": "insufficient stock"})
	case errors.Is(err, service.ErrInvalidState):
		return c.JSON(http.StatusConflict, echo.Map{"error": "operation not allowed in the current state"})
	case errors.Is(err, service.ErrDuplicateEmail):
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
	case errors.Is(err, service.ErrHasDependents):
		return c.JSON(http.StatusConflict, echo.Map{"error": "company has associated products or users"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// actor rebuilds the acting identity from the session context
func actor(c echo.Context) service.Actor {
	userID, role, companyID := middleware.ActorFromContext(c)
	return service.Actor{UserID: userID, Role: role, CompanyID: companyID}
}

// pathID parses the :id route parameter
func pathID(c echo.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
