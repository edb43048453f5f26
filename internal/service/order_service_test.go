package service

import (
	"context"
	"testing"
	"time"

	"ecofood/internal/model"
	"ecofood/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store    *repository.MemoryStore
	products *repository.MemoryProducts
	orders   *OrderService
	catalog  *ProductService
}

func setup(t *testing.T) *fixture {
	t.Helper()
	store := repository.NewMemoryStore()
	products := repository.NewMemoryProducts(store)
	orders := repository.NewMemoryOrders(store)
	tx := repository.NewMemoryTxManager()
	return &fixture{
		store:    store,
		products: products,
		orders:   NewOrderService(products, orders, tx),
		catalog:  NewProductService(products),
	}
}

func companyActor(companyID uint) Actor {
	return Actor{UserID: companyID, Role: model.RoleCompany, CompanyID: &companyID}
}

func adminActor() Actor {
	return Actor{UserID: 99, Role: model.RoleAdmin}
}

func (f *fixture) seedProduct(t *testing.T, companyID uint, quantity int, price float64) *model.Product {
	t.Helper()
	p, err := f.catalog.Create(context.Background(), companyID, ProductInput{
		Name:     "Pan integral",
		Price:    price,
		Quantity: quantity,
	})
	require.NoError(t, err)
	return p
}

func TestCreateAndApproveDecrementsStock(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	p := f.seedProduct(t, 1, 5, 990)

	order, err := f.orders.Create(ctx, 10, p.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, p.Name, order.ProductName)
	assert.Equal(t, p.CompanyID, order.CompanyID)

	// creation must not touch the product
	before, err := f.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, before.Quantity)

	approved, err := f.orders.Approve(ctx, order.ID, companyActor(1))
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusApproved, approved.Status)

	after, err := f.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, after.Quantity)
}

func TestRejectLeavesStockUntouched(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	p := f.seedProduct(t, 1, 5, 990)

	order, err := f.orders.Create(ctx, 10, p.ID, 3)
	require.NoError(t, err)

	rejected, err := f.orders.Reject(ctx, order.ID, companyActor(1))
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusRejected, rejected.Status)

	after, err := f.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, after.Quantity)
}

func TestApprovalRevalidatesStock(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	p := f.seedProduct(t, 1, 5, 0)

	// two pending orders that together exceed the stock
	first, err := f.orders.Create(ctx, 10, p.ID, 3)
	require.NoError(t, err)
	second, err := f.orders.Create(ctx, 11, p.ID, 4)
	require.NoError(t, err)

	_, err = f.orders.Approve(ctx, first.ID, companyActor(1))
	require.NoError(t, err)

	// the second approval must fail the re-check, stock stays at 2
	_, err = f.orders.Approve(ctx, second.ID, companyActor(1))
	assert.ErrorIs(t, err, ErrInsufficientStock)

	after, err := f.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, after.Quantity)

	// the failed order is still pending
	pending, err := f.orders.ListByCompany(ctx, 1, model.OrderStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)
}

func TestExhaustionMarksOutOfStockAndBlocksFurtherApprovals(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	p := f.seedProduct(t, 1, 2, 500)

	exact, err := f.orders.Create(ctx, 10, p.ID, 2)
	require.NoError(t, err)
	another, err := f.orders.Create(ctx, 11, p.ID, 1)
	require.NoError(t, err)

	_, err = f.orders.Approve(ctx, exact.ID, companyActor(1))
	require.NoError(t, err)

	after, err := f.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, after.Quantity)
	assert.Equal(t, model.ProductStatusOutOfStock, after.Status(time.Now()))

	// approving against an exhausted product must fail, never go negative
	_, err = f.orders.Approve(ctx, another.ID, companyActor(1))
	assert.ErrorIs(t, err, ErrInsufficientStock)

	final, err := f.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, final.Quantity)
}

func TestCreateOrderValidation(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	p := f.seedProduct(t, 1, 5, 990)

	_, err := f.orders.Create(ctx, 10, p.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.orders.Create(ctx, 10, p.ID, 6)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	_, err = f.orders.Create(ctx, 10, 999, 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreateOrderAgainstExpiredProduct(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	expired := time.Now().Add(-24 * time.Hour)
	p, err := f.catalog.Create(ctx, 1, ProductInput{Name: "Yogur", Price: 300, Quantity: 4, ExpiresAt: &expired})
	require.NoError(t, err)

	_, err = f.orders.Create(ctx, 10, p.ID, 1)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestOnlyOwnerOrAdminResolves(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	p := f.seedProduct(t, 1, 5, 990)

	order, err := f.orders.Create(ctx, 10, p.ID, 1)
	require.NoError(t, err)

	_, err = f.orders.Approve(ctx, order.ID, companyActor(2))
	assert.ErrorIs(t, err, ErrForbidden)

	clientID := uint(10)
	_, err = f.orders.Approve(ctx, order.ID, Actor{UserID: clientID, Role: model.RoleClient})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.orders.Approve(ctx, order.ID, adminActor())
	require.NoError(t, err)
}

func TestDeliverOnlyFromApproved(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	p := f.seedProduct(t, 1, 5, 990)

	order, err := f.orders.Create(ctx, 10, p.ID, 1)
	require.NoError(t, err)

	_, err = f.orders.Deliver(ctx, order.ID, companyActor(1))
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = f.orders.Approve(ctx, order.ID, companyActor(1))
	require.NoError(t, err)

	delivered, err := f.orders.Deliver(ctx, order.ID, companyActor(1))
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusDelivered, delivered.Status)

	// resolved orders cannot be re-resolved
	_, err = f.orders.Reject(ctx, order.ID, companyActor(1))
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestEndToEndScenario(t *testing.T) {
	// client requests 3 of a free product with quantity 5, the company
	// approves, then a second 4-unit order against the remaining 2 fails
	ctx := context.Background()
	f := setup(t)
	p := f.seedProduct(t, 1, 5, 0)
	assert.Equal(t, model.ProductStatusFree, p.Status(time.Now()))

	order, err := f.orders.Create(ctx, 10, p.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, 3, order.Quantity)

	unchanged, err := f.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ProductStatusFree, unchanged.Status(time.Now()))

	approved, err := f.orders.Approve(ctx, order.ID, companyActor(1))
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusApproved, approved.Status)

	after, err := f.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, after.Quantity)

	second, err := f.orders.Create(ctx, 11, p.ID, 2)
	require.NoError(t, err)
	// grow the ask beyond remaining stock by approving after another order
	// has already consumed it
	third, err := f.orders.Create(ctx, 12, p.ID, 2)
	require.NoError(t, err)

	_, err = f.orders.Approve(ctx, second.ID, companyActor(1))
	require.NoError(t, err)
	_, err = f.orders.Approve(ctx, third.ID, companyActor(1))
	assert.ErrorIs(t, err, ErrInsufficientStock)
}
