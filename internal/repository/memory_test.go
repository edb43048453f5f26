package repository

import (
	"context"
	"testing"

	"ecofood/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryProductsCRUD(t *testing.T) {
	ctx := context.Background()
	products := NewMemoryProducts(NewMemoryStore())

	p := &model.Product{Name: "Pan integral", Price: 990, Quantity: 5, CompanyID: 1}
	require.NoError(t, products.Create(ctx, p))
	assert.NotZero(t, p.ID)

	got, err := products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pan integral", got.Name)

	// the returned copy is detached from the store
	got.Quantity = 0
	again, err := products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, again.Quantity)

	again.Quantity = 2
	require.NoError(t, products.Update(ctx, again))
	updated, err := products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Quantity)

	require.NoError(t, products.Delete(ctx, p.ID))
	_, err = products.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, products.Delete(ctx, p.ID), ErrNotFound)
	assert.ErrorIs(t, products.Update(ctx, p), ErrNotFound)
}

func TestMemoryProductsByCompany(t *testing.T) {
	ctx := context.Background()
	products := NewMemoryProducts(NewMemoryStore())

	for i, companyID := range []uint{1, 1, 2} {
		require.NoError(t, products.Create(ctx, &model.Product{Name: "P", Quantity: i, CompanyID: companyID}))
	}

	mine, err := products.ListByCompany(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Less(t, mine[0].ID, mine[1].ID)

	count, err := products.CountByCompany(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	count, err = products.CountByCompany(ctx, 3)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMemoryOrdersFiltering(t *testing.T) {
	ctx := context.Background()
	orders := NewMemoryOrders(NewMemoryStore())

	seed := []model.Order{
		{ClientID: 10, CompanyID: 1, Status: model.OrderStatusPending},
		{ClientID: 10, CompanyID: 2, Status: model.OrderStatusApproved},
		{ClientID: 11, CompanyID: 1, Status: model.OrderStatusApproved},
	}
	for i := range seed {
		require.NoError(t, orders.Create(ctx, &seed[i]))
	}

	byClient, err := orders.ListByClient(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, byClient, 2)

	all, err := orders.ListByCompany(ctx, 1, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	approved, err := orders.ListByCompany(ctx, 1, model.OrderStatusApproved)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, uint(11), approved[0].ClientID)
}

func TestMemoryUsersEmailUniqueness(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryUsers(NewMemoryStore())

	first := &model.User{Name: "Ana", Email: "ana@example.com", Role: model.RoleClient}
	require.NoError(t, users.Create(ctx, first))

	dup := &model.User{Name: "Otra Ana", Email: "ana@example.com", Role: model.RoleClient}
	assert.ErrorIs(t, users.Create(ctx, dup), ErrDuplicate)

	second := &model.User{Name: "Beto", Email: "beto@example.com", Role: model.RoleClient}
	require.NoError(t, users.Create(ctx, second))

	// updating onto someone else's email is also rejected
	second.Email = "ana@example.com"
	assert.ErrorIs(t, users.Update(ctx, second), ErrDuplicate)

	// updating without changing the email is fine
	first.Name = "Ana María"
	require.NoError(t, users.Update(ctx, first))

	got, err := users.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ana María", got.Name)
}

func TestMemoryCompaniesUniqueness(t *testing.T) {
	ctx := context.Background()
	companies := NewMemoryCompanies(NewMemoryStore())

	require.NoError(t, companies.Create(ctx, &model.Company{
		Name: "Panadería Sur", RUT: "12345678-5", Email: "sur@example.com",
	}))

	assert.ErrorIs(t, companies.Create(ctx, &model.Company{
		Name: "Otra", RUT: "12345678-5", Email: "otra@example.com",
	}), ErrDuplicate)

	assert.ErrorIs(t, companies.Create(ctx, &model.Company{
		Name: "Otra", RUT: "87654321-0", Email: "sur@example.com",
	}), ErrDuplicate)

	require.NoError(t, companies.Create(ctx, &model.Company{
		Name: "Verdulería Norte", RUT: "87654321-0", Email: "norte@example.com",
	}))

	all, err := companies.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMemoryTxManagerSerializes(t *testing.T) {
	tx := NewMemoryTxManager()
	counter := 0
	done := make(chan struct{})
	for i := 0; i < 20; i++ {
		go func() {
			_ = tx.WithTransaction(context.Background(), func(ctx context.Context) error {
				counter++
				return nil
			})
			done <- struct{}{}
		}()
	}
	for i := 0; i < 20; i++ {
		<-done
	}
	assert.Equal(t, 20, counter)
}
