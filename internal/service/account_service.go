package service

import (
	"context"
	"errors"
	"strings"

	"ecofood/internal/model"
	"ecofood/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// Principal is the authenticated identity handed to the token layer
type Principal struct {
	ID        uint
	Name      string
	Email     string
	Role      string
	CompanyID *uint
}

// RegisterClientInput carries the client registration fields
type RegisterClientInput struct {
	Name     string
	Email    string
	Password string
	Address  string
	Region   string
	Commune  string
	Phone    string
}

// RegisterCompanyInput carries the company registration fields
type RegisterCompanyInput struct {
	Name     string
	RUT      string
	Email    string
	Password string
	Address  string
	Region   string
	Commune  string
	Phone    string
}

// AccountService owns registration, authentication and the account management
// operations exposed to administrators. Email uniqueness spans the users and
// companies tables, so the per-table unique indexes cannot close the race on
// their own: every write that claims an email runs inside a transaction
// holding the email lock, making the cross-table check authoritative. The
// indexes remain as a same-table backstop.
type AccountService struct {
	users      repository.UserRepository
	companies  repository.CompanyRepository
	products   repository.ProductRepository
	tx         repository.TxManager
	bcryptCost int
}

func NewAccountService(users repository.UserRepository, companies repository.CompanyRepository, products repository.ProductRepository, tx repository.TxManager, bcryptCost int) *AccountService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AccountService{users: users, companies: companies, products: products, tx: tx, bcryptCost: bcryptCost}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// emailTaken checks both account tables. Call it with the email lock held;
// without the lock the answer can go stale before the insert.
func (s *AccountService) emailTaken(ctx context.Context, email string) (bool, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return true, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}
	if _, err := s.companies.GetByEmail(ctx, email); err == nil {
		return true, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}
	return false, nil
}

func (s *AccountService) hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// withFreeEmail runs fn inside a transaction that holds the email lock and
// has verified the email is unclaimed in both account tables. Concurrent
// registrations of the same email serialize on the lock, so exactly one of
// them observes the email as free.
func (s *AccountService) withFreeEmail(ctx context.Context, email string, fn func(ctx context.Context) error) error {
	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.tx.LockEmail(ctx, email); err != nil {
			return err
		}
		taken, err := s.emailTaken(ctx, email)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateEmail
		}
		return fn(ctx)
	})
}

// RegisterClient creates a client account
func (s *AccountService) RegisterClient(ctx context.Context, in RegisterClientInput) (*model.User, error) {
	return s.createUser(ctx, in, model.RoleClient)
}

// CreateAdmin creates an administrator account
func (s *AccountService) CreateAdmin(ctx context.Context, in RegisterClientInput) (*model.User, error) {
	return s.createUser(ctx, in, model.RoleAdmin)
}

func (s *AccountService) createUser(ctx context.Context, in RegisterClientInput, role string) (*model.User, error) {
	email := normalizeEmail(in.Email)
	if in.Name == "" || email == "" || in.Password == "" {
		return nil, ErrInvalidInput
	}

	// hash before entering the transaction, bcrypt is slow
	hashed, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:     in.Name,
		Email:    email,
		Password: hashed,
		Role:     role,
		Address:  in.Address,
		Region:   in.Region,
		Commune:  in.Commune,
		Phone:    in.Phone,
	}
	err = s.withFreeEmail(ctx, email, func(ctx context.Context) error {
		if err := s.users.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrDuplicateEmail
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// RegisterCompany creates a company account
func (s *AccountService) RegisterCompany(ctx context.Context, in RegisterCompanyInput) (*model.Company, error) {
	email := normalizeEmail(in.Email)
	if in.Name == "" || email == "" || in.Password == "" || in.RUT == "" {
		return nil, ErrInvalidInput
	}

	hashed, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	company := &model.Company{
		Name:     in.Name,
		RUT:      in.RUT,
		Email:    email,
		Password: hashed,
		Address:  in.Address,
		Region:   in.Region,
		Commune:  in.Commune,
		Phone:    in.Phone,
	}
	err = s.withFreeEmail(ctx, email, func(ctx context.Context) error {
		if err := s.companies.Create(ctx, company); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrDuplicateEmail
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return company, nil
}

// Authenticate verifies credentials against users first, then companies,
// mirroring the original account lookup order.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*Principal, error) {
	email = normalizeEmail(email)

	if user, err := s.users.GetByEmail(ctx, email); err == nil {
		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
			return nil, ErrInvalidCredentials
		}
		return &Principal{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role, CompanyID: user.CompanyID}, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	company, err := s.companies.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(company.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	companyID := company.ID
	return &Principal{ID: company.ID, Name: company.Name, Email: company.Email, Role: model.RoleCompany, CompanyID: &companyID}, nil
}

// GetUser returns a user account
func (s *AccountService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

// ListByRole lists user accounts with the given role
func (s *AccountService) ListByRole(ctx context.Context, role string) ([]model.User, error) {
	return s.users.ListByRole(ctx, role)
}

// UpdateUser edits a client or administrator account. Blank fields keep the
// stored value.
func (s *AccountService) UpdateUser(ctx context.Context, id uint, in RegisterClientInput) (*model.User, error) {
	hashed := ""
	if in.Password != "" {
		var err error
		hashed, err = s.hashPassword(in.Password)
		if err != nil {
			return nil, err
		}
	}

	var user *model.User
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.users.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if in.Name != "" {
			user.Name = in.Name
		}
		if email := normalizeEmail(in.Email); email != "" && email != user.Email {
			if err := s.tx.LockEmail(ctx, email); err != nil {
				return err
			}
			taken, err := s.emailTaken(ctx, email)
			if err != nil {
				return err
			}
			if taken {
				return ErrDuplicateEmail
			}
			user.Email = email
		}
		if hashed != "" {
			user.Password = hashed
		}
		if in.Address != "" {
			user.Address = in.Address
		}
		if in.Region != "" {
			user.Region = in.Region
		}
		if in.Commune != "" {
			user.Commune = in.Commune
		}
		if in.Phone != "" {
			user.Phone = in.Phone
		}

		if err := s.users.Update(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrDuplicateEmail
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a client or administrator account. The main
// administrator cannot be deleted.
func (s *AccountService) DeleteUser(ctx context.Context, id uint) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user.MainAdmin {
		return ErrForbidden
	}
	return s.users.Delete(ctx, id)
}

// GetCompany returns a company account
func (s *AccountService) GetCompany(ctx context.Context, id uint) (*model.Company, error) {
	return s.companies.GetByID(ctx, id)
}

// ListCompanies lists all company accounts
func (s *AccountService) ListCompanies(ctx context.Context) ([]model.Company, error) {
	return s.companies.List(ctx)
}

// UpdateCompany edits a company account. Blank fields keep the stored value.
func (s *AccountService) UpdateCompany(ctx context.Context, id uint, in RegisterCompanyInput) (*model.Company, error) {
	hashed := ""
	if in.Password != "" {
		var err error
		hashed, err = s.hashPassword(in.Password)
		if err != nil {
			return nil, err
		}
	}

	var company *model.Company
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		company, err = s.companies.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if in.Name != "" {
			company.Name = in.Name
		}
		if in.RUT != "" {
			company.RUT = in.RUT
		}
		if email := normalizeEmail(in.Email); email != "" && email != company.Email {
			if err := s.tx.LockEmail(ctx, email); err != nil {
				return err
			}
			taken, err := s.emailTaken(ctx, email)
			if err != nil {
				return err
			}
			if taken {
				return ErrDuplicateEmail
			}
			company.Email = email
		}
		if hashed != "" {
			company.Password = hashed
		}
		if in.Address != "" {
			company.Address = in.Address
		}
		if in.Region != "" {
			company.Region = in.Region
		}
		if in.Commune != "" {
			company.Commune = in.Commune
		}
		if in.Phone != "" {
			company.Phone = in.Phone
		}

		if err := s.companies.Update(ctx, company); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrDuplicateEmail
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return company, nil
}

// DeleteCompany removes a company account. The delete is blocked while the
// company still owns products or has users linked to it; both checks run
// inside the same transaction as the delete.
func (s *AccountService) DeleteCompany(ctx context.Context, id uint) error {
	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.companies.GetByID(ctx, id); err != nil {
			return err
		}

		productCount, err := s.products.CountByCompany(ctx, id)
		if err != nil {
			return err
		}
		if productCount > 0 {
			return ErrHasDependents
		}

		userCount, err := s.users.CountByCompany(ctx, id)
		if err != nil {
			return err
		}
		if userCount > 0 {
			return ErrHasDependents
		}

		return s.companies.Delete(ctx, id)
	})
}
