package repository

import (
	"context"
	"errors"

	"ecofood/internal/model"
)

// ErrNotFound is returned when an entity does not exist
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a unique constraint (email, RUT) is violated
var ErrDuplicate = errors.New("duplicate record")

// ProductRepository persists products
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	GetByID(ctx context.Context, id uint) (*model.Product, error)
	// GetByIDForUpdate loads the product with a row lock so that a
	// transaction can re-validate and decrement stock without racing
	// concurrent approvals.
	GetByIDForUpdate(ctx context.Context, id uint) (*model.Product, error)
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]model.Product, error)
	ListByCompany(ctx context.Context, companyID uint) ([]model.Product, error)
	CountByCompany(ctx context.Context, companyID uint) (int64, error)
}

// OrderRepository persists orders. Orders are never deleted.
type OrderRepository interface {
	Create(ctx context.Context, o *model.Order) error
	GetByID(ctx context.Context, id uint) (*model.Order, error)
	Update(ctx context.Context, o *model.Order) error
	ListByClient(ctx context.Context, clientID uint) ([]model.Order, error)
	// ListByCompany filters by status when status is non-empty.
	ListByCompany(ctx context.Context, companyID uint, status model.OrderStatus) ([]model.Order, error)
}

// UserRepository persists client and administrator accounts
type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, id uint) error
	ListByRole(ctx context.Context, role string) ([]model.User, error)
	CountByCompany(ctx context.Context, companyID uint) (int64, error)
}

// CompanyRepository persists company accounts
type CompanyRepository interface {
	Create(ctx context.Context, c *model.Company) error
	GetByID(ctx context.Context, id uint) (*model.Company, error)
	GetByEmail(ctx context.Context, email string) (*model.Company, error)
	Update(ctx context.Context, c *model.Company) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]model.Company, error)
}

// TxManager runs fn atomically. The gorm implementation opens a database
// transaction; the in-memory implementation serializes with a lock.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	// LockEmail serializes account writes for the given email until the
	// surrounding transaction ends. Email uniqueness spans the users and
	// companies tables, so the per-table unique indexes alone cannot stop
	// two concurrent registrations from landing the same email in
	// different tables; callers take this lock before the cross-table
	// check.
	LockEmail(ctx context.Context, email string) error
}
