package service

import (
	"context"
	"time"

	"ecofood/internal/model"
	"ecofood/internal/repository"
)

// OrderService mediates the order lifecycle: creation against a requestable
// product and resolution by the owning company or an administrator. Approval
// re-validates stock and decrements it in one transaction, so concurrent
// approvals can never overcommit a product or drive its quantity negative.
type OrderService struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	tx       repository.TxManager
	now      func() time.Time
}

func NewOrderService(products repository.ProductRepository, orders repository.OrderRepository, tx repository.TxManager) *OrderService {
	return &OrderService{products: products, orders: orders, tx: tx, now: time.Now}
}

// Create inserts a pending order for the client. The stock check here is
// advisory: nothing is reserved, and sufficiency is re-validated at approval.
func (s *OrderService) Create(ctx context.Context, clientID uint, productID uint, quantity int) (*model.Order, error) {
	if clientID == 0 || productID == 0 || quantity <= 0 {
		return nil, ErrInvalidInput
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.Requestable(s.now()) {
		return nil, ErrInvalidState
	}
	if quantity > product.Quantity {
		return nil, ErrInsufficientStock
	}

	order := &model.Order{
		ClientID:    clientID,
		ProductID:   productID,
		CompanyID:   product.CompanyID,
		ProductName: product.Name,
		Quantity:    quantity,
		Status:      model.OrderStatusPending,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Approve moves a pending order to approved and decrements the product's
// stock as one atomic unit. The product row is locked for the duration, the
// sufficiency check runs against the locked value, and either both writes
// happen or neither does.
func (s *OrderService) Approve(ctx context.Context, orderID uint, actor Actor) (*model.Order, error) {
	var approved *model.Order
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		order, err := s.orders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if !actor.canResolveOrders(order.CompanyID) {
			return ErrForbidden
		}
		if !order.Status.CanTransitionTo(model.OrderStatusApproved) {
			return ErrInvalidState
		}

		product, err := s.products.GetByIDForUpdate(ctx, order.ProductID)
		if err != nil {
			return err
		}
		if product.Quantity < order.Quantity {
			return ErrInsufficientStock
		}

		product.Quantity -= order.Quantity
		if err := s.products.Update(ctx, product); err != nil {
			return err
		}

		order.Status = model.OrderStatusApproved
		if err := s.orders.Update(ctx, order); err != nil {
			return err
		}
		approved = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return approved, nil
}

// Reject moves a pending order to rejected. The product is never touched.
func (s *OrderService) Reject(ctx context.Context, orderID uint, actor Actor) (*model.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.canResolveOrders(order.CompanyID) {
		return nil, ErrForbidden
	}
	if !order.Status.CanTransitionTo(model.OrderStatusRejected) {
		return nil, ErrInvalidState
	}

	order.Status = model.OrderStatusRejected
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Deliver marks an approved order as delivered
func (s *OrderService) Deliver(ctx context.Context, orderID uint, actor Actor) (*model.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.canResolveOrders(order.CompanyID) {
		return nil, ErrForbidden
	}
	if !order.Status.CanTransitionTo(model.OrderStatusDelivered) {
		return nil, ErrInvalidState
	}

	order.Status = model.OrderStatusDelivered
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// ListByClient returns the client's own orders
func (s *OrderService) ListByClient(ctx context.Context, clientID uint) ([]model.Order, error) {
	return s.orders.ListByClient(ctx, clientID)
}

// ListByCompany returns orders addressed to the company, optionally filtered
// by status
func (s *OrderService) ListByCompany(ctx context.Context, companyID uint, status model.OrderStatus) ([]model.Order, error) {
	return s.orders.ListByCompany(ctx, companyID, status)
}
