package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"ecofood/internal/model"
	"ecofood/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setupAccounts(t *testing.T) (*AccountService, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	users := repository.NewMemoryUsers(store)
	companies := repository.NewMemoryCompanies(store)
	products := repository.NewMemoryProducts(store)
	tx := repository.NewMemoryTxManager()
	return NewAccountService(users, companies, products, tx, bcrypt.MinCost), store
}

func clientInput(email string) RegisterClientInput {
	return RegisterClientInput{
		Name:     "Maria Lopez",
		Email:    email,
		Password: "clave123",
		Address:  "Av. Siempre Viva 742",
		Region:   "Metropolitana",
		Commune:  "Santiago",
	}
}

func companyInput(email, rut string) RegisterCompanyInput {
	return RegisterCompanyInput{
		Name:     "Panaderia Sur",
		RUT:      rut,
		Email:    email,
		Password: "clave123",
		Address:  "Calle Larga 100",
		Region:   "Valparaíso",
		Commune:  "Quilpué",
	}
}

func TestRegisterAndAuthenticateClient(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupAccounts(t)

	user, err := svc.RegisterClient(ctx, clientInput("Maria@Example.com"))
	require.NoError(t, err)
	assert.Equal(t, model.RoleClient, user.Role)
	// email is normalized and the password is never stored in clear
	assert.Equal(t, "maria@example.com", user.Email)
	assert.NotEqual(t, "clave123", user.Password)

	principal, err := svc.Authenticate(ctx, "maria@example.com", "clave123")
	require.NoError(t, err)
	assert.Equal(t, model.RoleClient, principal.Role)

	_, err = svc.Authenticate(ctx, "maria@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "clave123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterCompanyAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupAccounts(t)

	company, err := svc.RegisterCompany(ctx, companyInput("contacto@pansur.cl", "12345678-5"))
	require.NoError(t, err)

	principal, err := svc.Authenticate(ctx, "contacto@pansur.cl", "clave123")
	require.NoError(t, err)
	assert.Equal(t, model.RoleCompany, principal.Role)
	require.NotNil(t, principal.CompanyID)
	assert.Equal(t, company.ID, *principal.CompanyID)
}

func TestEmailUniquenessAcrossAccountTypes(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupAccounts(t)

	_, err := svc.RegisterClient(ctx, clientInput("shared@example.com"))
	require.NoError(t, err)

	_, err = svc.RegisterClient(ctx, clientInput("shared@example.com"))
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	// a company cannot take a client's email either
	_, err = svc.RegisterCompany(ctx, companyInput("shared@example.com", "11111111-1"))
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	// and the check is backed by the store's unique constraint, not just
	// the advisory pre-read
	_, err = svc.RegisterCompany(ctx, companyInput("otra@pansur.cl", "22222222-2"))
	require.NoError(t, err)
	_, err = svc.RegisterCompany(ctx, companyInput("otra@pansur.cl", "33333333-3"))
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestConcurrentRegistrationSameEmail(t *testing.T) {
	// a client and a company racing the same email into their separate
	// tables must never both succeed
	for i := 0; i < 25; i++ {
		svc, _ := setupAccounts(t)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, errs[0] = svc.RegisterClient(context.Background(), clientInput("shared@example.com"))
		}()
		go func() {
			defer wg.Done()
			_, errs[1] = svc.RegisterCompany(context.Background(), companyInput("shared@example.com", "12345678-5"))
		}()
		wg.Wait()

		var won, lost int
		for _, err := range errs {
			switch {
			case err == nil:
				won++
			case errors.Is(err, ErrDuplicateEmail):
				lost++
			default:
				t.Fatalf("unexpected registration error: %v", err)
			}
		}
		assert.Equal(t, 1, won, "exactly one registration should win")
		assert.Equal(t, 1, lost, "the other should see a duplicate email")
	}
}

func TestUpdateUserCannotTakeCompanyEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupAccounts(t)

	user, err := svc.RegisterClient(ctx, clientInput("maria@example.com"))
	require.NoError(t, err)
	_, err = svc.RegisterCompany(ctx, companyInput("contacto@pansur.cl", "12345678-5"))
	require.NoError(t, err)

	_, err = svc.UpdateUser(ctx, user.ID, RegisterClientInput{Email: "contacto@pansur.cl"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	// and the mirror direction
	company, err := svc.RegisterCompany(ctx, companyInput("otra@pansur.cl", "87654321-0"))
	require.NoError(t, err)
	_, err = svc.UpdateCompany(ctx, company.ID, RegisterCompanyInput{Email: "maria@example.com"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestCreateAdminAndMainAdminGuard(t *testing.T) {
	ctx := context.Background()
	svc, store := setupAccounts(t)

	admin, err := svc.CreateAdmin(ctx, clientInput("admin@ecofood.cl"))
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, admin.Role)

	// promote to main admin directly in the store
	users := repository.NewMemoryUsers(store)
	admin.MainAdmin = true
	require.NoError(t, users.Update(ctx, admin))

	err = svc.DeleteUser(ctx, admin.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	regular, err := svc.CreateAdmin(ctx, clientInput("admin2@ecofood.cl"))
	require.NoError(t, err)
	require.NoError(t, svc.DeleteUser(ctx, regular.ID))
}

func TestDeleteCompanyBlockedByDependents(t *testing.T) {
	ctx := context.Background()
	svc, store := setupAccounts(t)
	products := repository.NewMemoryProducts(store)

	company, err := svc.RegisterCompany(ctx, companyInput("contacto@pansur.cl", "12345678-5"))
	require.NoError(t, err)

	require.NoError(t, products.Create(ctx, &model.Product{Name: "Marraqueta", Quantity: 10, CompanyID: company.ID}))

	err = svc.DeleteCompany(ctx, company.ID)
	assert.ErrorIs(t, err, ErrHasDependents)

	// the company record survives the refused delete
	_, err = svc.GetCompany(ctx, company.ID)
	require.NoError(t, err)

	// removing the product unblocks deletion
	list, err := products.ListByCompany(ctx, company.ID)
	require.NoError(t, err)
	require.NoError(t, products.Delete(ctx, list[0].ID))

	require.NoError(t, svc.DeleteCompany(ctx, company.ID))
	_, err = svc.GetCompany(ctx, company.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteCompanyBlockedByLinkedUsers(t *testing.T) {
	ctx := context.Background()
	svc, store := setupAccounts(t)
	users := repository.NewMemoryUsers(store)

	company, err := svc.RegisterCompany(ctx, companyInput("contacto@pansur.cl", "12345678-5"))
	require.NoError(t, err)

	staff := &model.User{Name: "Pedro Soto", Email: "pedro@pansur.cl", Password: "x", Role: model.RoleClient, CompanyID: &company.ID}
	require.NoError(t, users.Create(ctx, staff))

	err = svc.DeleteCompany(ctx, company.ID)
	assert.ErrorIs(t, err, ErrHasDependents)
}

func TestUpdateUserKeepsPasswordWhenBlank(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupAccounts(t)

	user, err := svc.RegisterClient(ctx, clientInput("maria@example.com"))
	require.NoError(t, err)
	originalHash := user.Password

	in := clientInput("maria@example.com")
	in.Password = ""
	in.Phone = "987654321"
	updated, err := svc.UpdateUser(ctx, user.ID, in)
	require.NoError(t, err)
	assert.Equal(t, originalHash, updated.Password)
	assert.Equal(t, "987654321", updated.Phone)
}

func TestUpdateUserKeepsBlankFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupAccounts(t)

	user, err := svc.RegisterClient(ctx, clientInput("maria@example.com"))
	require.NoError(t, err)

	updated, err := svc.UpdateUser(ctx, user.ID, RegisterClientInput{Phone: "987654321"})
	require.NoError(t, err)
	assert.Equal(t, "987654321", updated.Phone)
	assert.Equal(t, "Maria Lopez", updated.Name)
	assert.Equal(t, "maria@example.com", updated.Email)
	assert.Equal(t, "Av. Siempre Viva 742", updated.Address)
	assert.Equal(t, "Metropolitana", updated.Region)
	assert.Equal(t, "Santiago", updated.Commune)
}

func TestUpdateCompanyKeepsBlankFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupAccounts(t)

	company, err := svc.RegisterCompany(ctx, companyInput("contacto@pansur.cl", "12345678-5"))
	require.NoError(t, err)

	updated, err := svc.UpdateCompany(ctx, company.ID, RegisterCompanyInput{Phone: "221234567"})
	require.NoError(t, err)
	assert.Equal(t, "221234567", updated.Phone)
	assert.Equal(t, "Panaderia Sur", updated.Name)
	assert.Equal(t, "12345678-5", updated.RUT)
	assert.Equal(t, "contacto@pansur.cl", updated.Email)
	assert.Equal(t, "Calle Larga 100", updated.Address)
	assert.Equal(t, "Valparaíso", updated.Region)
}
