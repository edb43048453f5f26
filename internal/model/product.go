package model

import (
	"time"

	"gorm.io/gorm"
)

// ProductStatus is derived from quantity, price and expiry date. It is never
// stored: every read computes it, so stock mutations and the passage of time
// cannot leave a stale status behind.
type ProductStatus string

const (
	ProductStatusAvailable    ProductStatus = "available"
	ProductStatusExpiringSoon ProductStatus = "expiring_soon"
	ProductStatusFree         ProductStatus = "free"
	ProductStatusExpired      ProductStatus = "expired"
	ProductStatusOutOfStock   ProductStatus = "out_of_stock"
)

// ExpiringSoonWindow is how close to expiry a product is flagged as expiring
const ExpiringSoonWindow = 3 * 24 * time.Hour

// Product represents a surplus food item published by a company
type Product struct {
	ID          uint           `json:"id" gorm:"primarykey"`
	Name        string         `json:"name" gorm:"type:varchar(100);not null"`
	Description string         `json:"description" gorm:"type:varchar(500)"`
	Price       float64        `json:"price" gorm:"not null"`
	Quantity    int            `json:"quantity" gorm:"not null;default:0"`
	ExpiresAt   *time.Time     `json:"expires_at,omitempty"`
	CompanyID   uint           `json:"company_id" gorm:"index;not null"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// Status derives the product status at the given instant.
// Precedence: out of stock, free, expired, expiring soon, available.
func (p *Product) Status(now time.Time) ProductStatus {
	if p.Quantity <= 0 {
		return ProductStatusOutOfStock
	}
	if p.Price <= 0 {
		return ProductStatusFree
	}
	if p.ExpiresAt != nil {
		if p.ExpiresAt.Before(now) {
			return ProductStatusExpired
		}
		if p.ExpiresAt.Sub(now) <= ExpiringSoonWindow {
			return ProductStatusExpiringSoon
		}
	}
	return ProductStatusAvailable
}

// Requestable reports whether clients may place orders against the product
func (p *Product) Requestable(now time.Time) bool {
	switch p.Status(now) {
	case ProductStatusAvailable, ProductStatusExpiringSoon, ProductStatusFree:
		return true
	}
	return false
}

// ProductView is the API representation of a product with its derived status
type ProductView struct {
	ID          uint       `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       float64    `json:"price"`
	Quantity    int        `json:"quantity"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CompanyID   uint       `json:"company_id"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewProductView builds the API view of a product at the given instant
func NewProductView(p *Product, now time.Time) ProductView {
	return ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Quantity:    p.Quantity,
		ExpiresAt:   p.ExpiresAt,
		CompanyID:   p.CompanyID,
		Status:      string(p.Status(now)),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
