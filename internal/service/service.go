package service

import (
	"errors"

	"ecofood/internal/model"
)

var (
	// ErrInvalidInput is returned for malformed or out-of-range input
	ErrInvalidInput = errors.New("invalid input")
	// ErrInsufficientStock is returned when a request or approval exceeds
	// the product's current stock
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInvalidState is returned for disallowed lifecycle transitions
	ErrInvalidState = errors.New("invalid state")
	// ErrForbidden is returned when the actor may not perform the operation
	ErrForbidden = errors.New("forbidden")
	// ErrDuplicateEmail is returned when the email is already registered
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidCredentials is returned on failed authentication
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrHasDependents is returned when a company still owns products or
	// has users linked to it
	ErrHasDependents = errors.New("company has dependent records")
)

// Actor identifies who is performing an operation, as resolved from the
// session token.
type Actor struct {
	UserID    uint
	Role      string
	CompanyID *uint
}

// ownsCompany reports whether the actor acts on behalf of the given company
func (a Actor) ownsCompany(companyID uint) bool {
	return a.Role == model.RoleCompany && a.CompanyID != nil && *a.CompanyID == companyID
}

// canResolveOrders reports whether the actor may approve, reject or deliver
// orders addressed to the given company
func (a Actor) canResolveOrders(companyID uint) bool {
	return a.Role == model.RoleAdmin || a.ownsCompany(companyID)
}
