package handler

import (
	"net/http"

	mid "ecofood/internal/middleware"
	"ecofood/internal/model"
	"ecofood/prometheus"

	"github.com/labstack/echo/v4"
)

// Health reports service liveness
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Routes registers the full HTTP surface on the Echo instance
func (h *Handler) Routes(e *echo.Echo) {
	e.GET("/metrics", echo.WrapHandler(prometheus.GetPrometheusHandler()))
	e.GET("/health", h.Health)

	// Public authentication endpoints
	auth := e.Group("/api/auth")
	auth.POST("/register", h.RegisterClient)
	auth.POST("/register/company", h.RegisterCompany)
	auth.POST("/login", h.Login)

	api := e.Group("/api", mid.JWTAuth(h.jwt))

	anyRole := mid.RequireRoles(model.RoleClient, model.RoleCompany, model.RoleAdmin)
	companyOnly := mid.RequireRoles(model.RoleCompany)
	clientOnly := mid.RequireRoles(model.RoleClient)
	resolvers := mid.RequireRoles(model.RoleCompany, model.RoleAdmin)
	adminOnly := mid.RequireRoles(model.RoleAdmin)

	products := api.Group("/products")
	products.GET("", h.ListProducts, anyRole)
	products.GET("/mine", h.ListMyProducts, companyOnly)
	products.GET("/:id", h.GetProduct, anyRole)
	products.POST("", h.CreateProduct, companyOnly)
	products.PUT("/:id", h.UpdateProduct, resolvers)
	products.DELETE("/:id", h.DeleteProduct, resolvers)

	orders := api.Group("/orders")
	orders.POST("", h.CreateOrder, clientOnly)
	orders.GET("/mine", h.ListMyOrders, clientOnly)
	orders.GET("/company", h.ListCompanyOrders, companyOnly)
	orders.POST("/:id/approve", h.ApproveOrder, resolvers)
	orders.POST("/:id/reject", h.RejectOrder, resolvers)
	orders.POST("/:id/deliver", h.DeliverOrder, resolvers)

	companies := api.Group("/companies")
	companies.GET("/me", h.GetMyCompany, companyOnly)
	companies.PUT("/me", h.UpdateMyCompany, companyOnly)

	admin := api.Group("/admin", adminOnly)
	admin.GET("/clients", h.ListClients)
	admin.POST("/clients", h.CreateClient)
	admin.PUT("/clients/:id", h.UpdateUserAccount)
	admin.DELETE("/clients/:id", h.DeleteUserAccount)
	admin.GET("/admins", h.ListAdmins)
	admin.POST("/admins", h.CreateAdmin)
	admin.PUT("/admins/:id", h.UpdateUserAccount)
	admin.DELETE("/admins/:id", h.DeleteUserAccount)
	admin.GET("/companies", h.ListCompanies)
	admin.POST("/companies", h.CreateCompany)
	admin.PUT("/companies/:id", h.UpdateCompanyAccount)
	admin.DELETE("/companies/:id", h.DeleteCompanyAccount)
}
