package handler

import (
	"net/http"
	"time"

	"ecofood/internal/model"
	"ecofood/internal/service"
	"ecofood/internal/validation"
	"ecofood/pkg/logger"
	"ecofood/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ProductRequest defines the structure for product creation/update requests
type ProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	ExpiresAt   string  `json:"expires_at"` // YYYY-MM-DD, optional
}

func (r *ProductRequest) toInput() (service.ProductInput, map[string]string) {
	problems := validation.ProductRules.Validate(map[string]string{
		"name":        r.Name,
		"description": r.Description,
	})
	if r.Price < 0 {
		problems["price"] = "must not be negative"
	}
	if r.Quantity < 0 {
		problems["quantity"] = "must not be negative"
	}

	var expiresAt *time.Time
	if r.ExpiresAt != "" {
		parsed, err := time.Parse("2006-01-02", r.ExpiresAt)
		if err != nil {
			problems["expires_at"] = "must be a date in YYYY-MM-DD format"
		} else {
			expiresAt = &parsed
		}
	}

	return service.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Quantity:    r.Quantity,
		ExpiresAt:   expiresAt,
	}, problems
}

func productViews(products []model.Product, statusFilter string) []model.ProductView {
	now := time.Now()
	views := make([]model.ProductView, 0, len(products))
	for i := range products {
		view := model.NewProductView(&products[i], now)
		if statusFilter != "" && view.Status != statusFilter {
			continue
		}
		views = append(views, view)
	}
	return views
}

// ListProducts handles browsing the catalog with optional filtering
func (h *Handler) ListProducts(c echo.Context) error {
	log := logger.FromContext(c)

	products, err := h.products.List(c.Request().Context())
	if err != nil {
		log.Error("Failed to list products", zap.Error(err))
		return httpError(c, err)
	}

	views := productViews(products, c.QueryParam("status"))
	log.Info("Products retrieved", zap.Int("count", len(views)))
	return c.JSON(http.StatusOK, views)
}

// ListMyProducts returns the authenticated company's own products
func (h *Handler) ListMyProducts(c echo.Context) error {
	log := logger.FromContext(c)
	act := actor(c)
	if act.CompanyID == nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "company account required"})
	}

	products, err := h.products.ListByCompany(c.Request().Context(), *act.CompanyID)
	if err != nil {
		log.Error("Failed to list company products", zap.Error(err))
		return httpError(c, err)
	}

	return c.JSON(http.StatusOK, productViews(products, c.QueryParam("status")))
}

// GetProduct handles retrieving a single product by ID
func (h *Handler) GetProduct(c echo.Context) error {
	log := logger.FromContext(c)
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	product, err := h.products.Get(c.Request().Context(), id)
	if err != nil {
		log.Error("Product not found", zap.Uint("product_id", id), zap.Error(err))
		return httpError(c, err)
	}

	return c.JSON(http.StatusOK, model.NewProductView(product, time.Now()))
}

// CreateProduct handles publishing a new product
func (h *Handler) CreateProduct(c echo.Context) error {
	log := logger.FromContext(c)
	act := actor(c)
	if act.CompanyID == nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "company account required"})
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	input, problems := req.toInput()
	if len(problems) > 0 {
		log.Warn("Product failed validation", zap.Any("fields", problems))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": problems})
	}

	product, err := h.products.Create(c.Request().Context(), *act.CompanyID, input)
	if err != nil {
		log.Error("Failed to create product", zap.String("name", req.Name), zap.Error(err))
		return httpError(c, err)
	}

	prometheus.RecordProductOperation("create")
	prometheus.UpdateProductStock(product.ID, product.Name, product.Quantity)
	log.Info("Product created",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name),
		zap.Int("quantity", product.Quantity))
	return c.JSON(http.StatusCreated, model.NewProductView(product, time.Now()))
}

// UpdateProduct handles editing an existing product
func (h *Handler) UpdateProduct(c echo.Context) error {
	log := logger.FromContext(c)
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Uint("product_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	input, problems := req.toInput()
	if len(problems) > 0 {
		log.Warn("Product failed validation", zap.Any("fields", problems))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": problems})
	}

	product, err := h.products.Update(c.Request().Context(), id, actor(c), input)
	if err != nil {
		log.Error("Failed to update product", zap.Uint("product_id", id), zap.Error(err))
		return httpError(c, err)
	}

	prometheus.RecordProductOperation("update")
	prometheus.UpdateProductStock(product.ID, product.Name, product.Quantity)
	log.Info("Product updated",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name),
		zap.Int("quantity", product.Quantity))
	return c.JSON(http.StatusOK, model.NewProductView(product, time.Now()))
}

// DeleteProduct handles removing a product
func (h *Handler) DeleteProduct(c echo.Context) error {
	log := logger.FromContext(c)
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	if err := h.products.Delete(c.Request().Context(), id, actor(c)); err != nil {
		log.Error("Failed to delete product", zap.Uint("product_id", id), zap.Error(err))
		return httpError(c, err)
	}

	prometheus.RecordProductOperation("delete")
	log.Info("Product deleted", zap.Uint("product_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "product deleted"})
}
