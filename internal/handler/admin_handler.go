package handler

import (
	"context"
	"net/http"

	"ecofood/internal/model"
	"ecofood/internal/service"
	"ecofood/internal/validation"
	"ecofood/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func (r *RegisterClientRequest) toInput() service.RegisterClientInput {
	return service.RegisterClientInput{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
		Address:  r.Address,
		Region:   r.Region,
		Commune:  r.Commune,
		Phone:    r.Phone,
	}
}

// ListClients returns all client accounts
func (h *Handler) ListClients(c echo.Context) error {
	log := logger.FromContext(c)

	clients, err := h.accounts.ListByRole(c.Request().Context(), model.RoleClient)
	if err != nil {
		log.Error("Failed to list clients", zap.Error(err))
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, clients)
}

// CreateClient registers a client on behalf of an administrator
func (h *Handler) CreateClient(c echo.Context) error {
	return h.createUserAccount(c, validation.ClientRules, h.accounts.RegisterClient)
}

// CreateAdmin registers a new administrator
func (h *Handler) CreateAdmin(c echo.Context) error {
	return h.createUserAccount(c, validation.AdminRules, h.accounts.CreateAdmin)
}

func (h *Handler) createUserAccount(c echo.Context, rules validation.RuleSet,
	create func(ctx context.Context, in service.RegisterClientInput) (*model.User, error)) error {
	log := logger.FromContext(c)

	var req RegisterClientRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid user data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	if problems := validateAccountForm(rules, req.fields(), req.Region, req.Commune); len(problems) > 0 {
		log.Warn("User creation failed validation", zap.Any("fields", problems))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": problems})
	}

	user, err := create(c.Request().Context(), req.toInput())
	if err != nil {
		log.Error("Failed to create user", zap.String("email", req.Email), zap.Error(err))
		return httpError(c, err)
	}

	log.Info("User created", zap.Uint("user_id", user.ID), zap.String("role", user.Role))
	return c.JSON(http.StatusCreated, user)
}

// ListAdmins returns all administrator accounts
func (h *Handler) ListAdmins(c echo.Context) error {
	log := logger.FromContext(c)

	admins, err := h.accounts.ListByRole(c.Request().Context(), model.RoleAdmin)
	if err != nil {
		log.Error("Failed to list administrators", zap.Error(err))
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, admins)
}

// UpdateUserAccount edits a client or administrator account
func (h *Handler) UpdateUserAccount(c echo.Context) error {
	log := logger.FromContext(c)
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	var req RegisterClientRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid user data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	target, err := h.accounts.GetUser(c.Request().Context(), id)
	if err != nil {
		log.Error("User not found", zap.Uint("user_id", id), zap.Error(err))
		return httpError(c, err)
	}

	// admins register without an address, so they edit without one too
	base := validation.ClientRules
	if target.Role == model.RoleAdmin {
		base = validation.AdminRules
	}
	rules := validation.UpdateRules(base)
	if problems := validateAccountForm(rules, req.fields(), req.Region, req.Commune); len(problems) > 0 {
		log.Warn("User update failed validation", zap.Any("fields", problems))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": problems})
	}

	user, err := h.accounts.UpdateUser(c.Request().Context(), id, req.toInput())
	if err != nil {
		log.Error("Failed to update user", zap.Uint("user_id", id), zap.Error(err))
		return httpError(c, err)
	}

	log.Info("User updated", zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusOK, user)
}

// DeleteUserAccount removes a client or administrator account
func (h *Handler) DeleteUserAccount(c echo.Context) error {
	log := logger.FromContext(c)
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	if err := h.accounts.DeleteUser(c.Request().Context(), id); err != nil {
		log.Error("Failed to delete user", zap.Uint("user_id", id), zap.Error(err))
		return httpError(c, err)
	}

	log.Info("User deleted", zap.Uint("user_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted"})
}

// ListCompanies returns all company accounts
func (h *Handler) ListCompanies(c echo.Context) error {
	log := logger.FromContext(c)

	companies, err := h.accounts.ListCompanies(c.Request().Context())
	if err != nil {
		log.Error("Failed to list companies", zap.Error(err))
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, companies)
}

// CreateCompany registers a company on behalf of an administrator
func (h *Handler) CreateCompany(c echo.Context) error {
	return h.RegisterCompany(c)
}

// UpdateCompanyAccount edits a company account
func (h *Handler) UpdateCompanyAccount(c echo.Context) error {
	log := logger.FromContext(c)
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid company id"})
	}

	var req RegisterCompanyRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid company data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	rules := validation.UpdateRules(validation.CompanyRules)
	if problems := validateAccountForm(rules, req.fields(), req.Region, req.Commune); len(problems) > 0 {
		log.Warn("Company update failed validation", zap.Any("fields", problems))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": problems})
	}

	company, err := h.accounts.UpdateCompany(c.Request().Context(), id, service.RegisterCompanyInput{
		Name:     req.Name,
		RUT:      req.RUT,
		Email:    req.Email,
		Password: req.Password,
		Address:  req.Address,
		Region:   req.Region,
		Commune:  req.Commune,
		Phone:    req.Phone,
	})
	if err != nil {
		log.Error("Failed to update company", zap.Uint("company_id", id), zap.Error(err))
		return httpError(c, err)
	}

	log.Info("Company updated", zap.Uint("company_id", company.ID))
	return c.JSON(http.StatusOK, company)
}

// DeleteCompanyAccount removes a company account; blocked while the company
// still owns products or has users linked to it
func (h *Handler) DeleteCompanyAccount(c echo.Context) error {
	log := logger.FromContext(c)
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid company id"})
	}

	if err := h.accounts.DeleteCompany(c.Request().Context(), id); err != nil {
		log.Error("Failed to delete company", zap.Uint("company_id", id), zap.Error(err))
		return httpError(c, err)
	}

	log.Info("Company deleted", zap.Uint("company_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "company deleted"})
}
