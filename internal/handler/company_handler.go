package handler

import (
	"net/http"

	"ecofood/internal/service"
	"ecofood/internal/validation"
	"ecofood/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// GetMyCompany returns the authenticated company's profile
func (h *Handler) GetMyCompany(c echo.Context) error {
	log := logger.FromContext(c)
	act := actor(c)
	if act.CompanyID == nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "company account required"})
	}

	company, err := h.accounts.GetCompany(c.Request().Context(), *act.CompanyID)
	if err != nil {
		log.Error("Failed to load company profile", zap.Error(err))
		return httpError(c, err)
	}

	return c.JSON(http.StatusOK, company)
}

// UpdateMyCompany edits the authenticated company's profile
func (h *Handler) UpdateMyCompany(c echo.Context) error {
	log := logger.FromContext(c)
	act := actor(c)
	if act.CompanyID == nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "company account required"})
	}

	var req RegisterCompanyRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid company profile data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	rules := validation.UpdateRules(validation.CompanyRules)
	if problems := validateAccountForm(rules, req.fields(), req.Region, req.Commune); len(problems) > 0 {
		log.Warn("Company profile failed validation", zap.Any("fields", problems))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": problems})
	}

	company, err := h.accounts.UpdateCompany(c.Request().Context(), *act.CompanyID, service.RegisterCompanyInput{
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
		log.Error("Failed to update company profile", zap.Error(err))
		return httpError(c, err)
	}

	log.Info("Company profile updated", zap.Uint("company_id", company.ID))
	return c.JSON(http.StatusOK, company)
}
