package service

import (
	"context"
	"strings"
	"time"

	"ecofood/internal/model"
	"ecofood/internal/repository"
)

// ProductInput carries the mutable product fields
type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Quantity    int
	ExpiresAt   *time.Time
}

// ProductService owns catalog mutations. Only the owning company (or an
// administrator) may edit or delete a product; stock decrements happen
// exclusively through order approval.
type ProductService struct {
	products repository.ProductRepository
}

func NewProductService(products repository.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

func (in *ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" || in.Price < 0 || in.Quantity < 0 {
		return ErrInvalidInput
	}
	return nil
}

// Create publishes a new product owned by the company
func (s *ProductService) Create(ctx context.Context, companyID uint, in ProductInput) (*model.Product, error) {
	if companyID == 0 {
		return nil, ErrInvalidInput
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Quantity:    in.Quantity,
		ExpiresAt:   in.ExpiresAt,
		CompanyID:   companyID,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update edits an existing product after an ownership check
func (s *ProductService) Update(ctx context.Context, id uint, actor Actor, in ProductInput) (*model.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != model.RoleAdmin && !actor.ownsCompany(product.CompanyID) {
		return nil, ErrForbidden
	}

	product.Name = in.Name
	product.Description = in.Description
	product.Price = in.Price
	product.Quantity = in.Quantity
	product.ExpiresAt = in.ExpiresAt

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product after an ownership check
func (s *ProductService) Delete(ctx context.Context, id uint, actor Actor) error {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if actor.Role != model.RoleAdmin && !actor.ownsCompany(product.CompanyID) {
		return ErrForbidden
	}
	return s.products.Delete(ctx, id)
}

// Get returns a single product
func (s *ProductService) Get(ctx context.Context, id uint) (*model.Product, error) {
	return s.products.GetByID(ctx, id)
}

// List returns the whole catalog
func (s *ProductService) List(ctx context.Context) ([]model.Product, error) {
	return s.products.List(ctx)
}

// ListByCompany returns a company's own products
func (s *ProductService) ListByCompany(ctx context.Context, companyID uint) ([]model.Product, error) {
	return s.products.ListByCompany(ctx, companyID)
}
