package handler

import (
	"net/http"

	"ecofood/internal/service"
	"ecofood/internal/validation"
	"ecofood/pkg/logger"
	"ecofood/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RegisterClientRequest is the client sign-up payload
type RegisterClientRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Address  string `json:"address"`
	Region   string `json:"region"`
	Commune  string `json:"commune"`
	Phone    string `json:"phone"`
}

func (r *RegisterClientRequest) fields() map[string]string {
	return map[string]string{
		"name":     r.Name,
		"email":    r.Email,
		"password": r.Password,
		"address":  r.Address,
		"phone":    r.Phone,
	}
}

// RegisterCompanyRequest is the company sign-up payload
type RegisterCompanyRequest struct {
	Name     string `json:"name"`
	RUT      string `json:"rut"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Address  string `json:"address"`
	Region   string `json:"region"`
	Commune  string `json:"commune"`
	Phone    string `json:"phone"`
}

func (r *RegisterCompanyRequest) fields() map[string]string {
	return map[string]string{
		"name":     r.Name,
		"rut":      r.RUT,
		"email":    r.Email,
		"password": r.Password,
		"address":  r.Address,
		"phone":    r.Phone,
	}
}

// validateAccountForm runs the rule set plus the region/commune pairing check
func validateAccountForm(rules validation.RuleSet, fields map[string]string, region, commune string) map[string]string {
	problems := rules.Validate(fields)
	if !validation.ValidRegionCommune(region, commune) {
		problems["commune"] = "does not belong to the selected region"
	}
	return problems
}

// RegisterClient handles client sign-up
func (h *Handler) RegisterClient(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RegisterCounter.Inc()

	var req RegisterClientRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if problems := validateAccountForm(validation.ClientRules, req.fields(), req.Region, req.Commune); len(problems) > 0 {
		log.Warn("Client registration failed validation", zap.Any("fields", problems))
		prometheus.RecordAuthError("validation_failed")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": problems})
	}

	user, err := h.accounts.RegisterClient(c.Request().Context(), service.RegisterClientInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Address:  req.Address,
		Region:   req.Region,
		Commune:  req.Commune,
		Phone:    req.Phone,
	})
	if err != nil {
		log.Error("Failed to register client", zap.String("email", req.Email), zap.Error(err))
		prometheus.RecordAuthError("registration_failed")
		return httpError(c, err)
	}

	log.Info("Client registered", zap.String("email", user.Email))
	return c.JSON(http.StatusCreated, user)
}

// RegisterCompany handles company sign-up
func (h *Handler) RegisterCompany(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RegisterCounter.Inc()

	var req RegisterCompanyRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse company registration request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if problems := validateAccountForm(validation.CompanyRules, req.fields(), req.Region, req.Commune); len(problems) > 0 {
		log.Warn("Company registration failed validation", zap.Any("fields", problems))
		prometheus.RecordAuthError("validation_failed")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": problems})
	}

	company, err := h.accounts.RegisterCompany(c.Request().Context(), service.RegisterCompanyInput{
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
		log.Error("Failed to register company", zap.String("email", req.Email), zap.Error(err))
		prometheus.RecordAuthError("registration_failed")
		return httpError(c, err)
	}

	log.Info("Company registered", zap.String("email", company.Email), zap.String("rut", company.RUT))
	return c.JSON(http.StatusCreated, company)
}

// Login authenticates an account and issues a JWT
func (h *Handler) Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	principal, err := h.accounts.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		log.Warn("Login failed", zap.String("email", req.Email), zap.Error(err))
		prometheus.RecordAuthError("invalid_credentials")
		return httpError(c, err)
	}

	token, err := h.jwt.GenerateToken(principal.Email, principal.ID, principal.Role, principal.CompanyID)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("User logged in",
		zap.String("email", principal.Email),
		zap.String("role", principal.Role))

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user": echo.Map{
			"id":    principal.ID,
			"name":  principal.Name,
			"email": principal.Email,
			"role":  principal.Role,
		},
	})
}
