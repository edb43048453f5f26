package model

import (
	"time"
)

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusApproved  OrderStatus = "approved"
	OrderStatusRejected  OrderStatus = "rejected"
	OrderStatusDelivered OrderStatus = "delivered"
)

// CanTransitionTo reports whether the status may move to the target state.
// Orders only move pending -> approved|rejected and approved -> delivered.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusApproved || target == OrderStatusRejected
	case OrderStatusApproved:
		return target == OrderStatusDelivered
	}
	return false
}

// Order is a client's request for a quantity of a product. The product name
// and owning company are denormalized at creation time so the order remains
// readable even if the product is later edited or removed. Orders are never
// deleted.
type Order struct {
	ID          uint        `json:"id" gorm:"primarykey"`
	ClientID    uint        `json:"client_id" gorm:"index;not null"`
	ProductID   uint        `json:"product_id" gorm:"index;not null"`
	CompanyID   uint        `json:"company_id" gorm:"index;not null"`
	ProductName string      `json:"product_name" gorm:"type:varchar(100);not null"`
	Quantity    int         `json:"quantity" gorm:"not null"`
	Status      OrderStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
