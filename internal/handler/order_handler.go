package handler

import (
	"net/http"

	"ecofood/internal/model"
	"ecofood/pkg/logger"
	"ecofood/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CreateOrderRequest is the payload for placing an order
type CreateOrderRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// CreateOrder handles a client requesting a quantity of a product
func (h *Handler) CreateOrder(c echo.Context) error {
	log := logger.FromContext(c)
	act := actor(c)

	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid order request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	order, err := h.orders.Create(c.Request().Context(), act.UserID, req.ProductID, req.Quantity)
	if err != nil {
		log.Error("Failed to create order",
			zap.Uint("product_id", req.ProductID),
			zap.Int("quantity", req.Quantity),
			zap.Error(err))
		prometheus.RecordOrderOperation("create", "error")
		return httpError(c, err)
	}

	prometheus.RecordOrderOperation("create", "ok")
	log.Info("Order created",
		zap.Uint("order_id", order.ID),
		zap.Uint("product_id", order.ProductID),
		zap.Int("quantity", order.Quantity))
	return c.JSON(http.StatusCreated, order)
}

// ListMyOrders returns the authenticated client's orders
func (h *Handler) ListMyOrders(c echo.Context) error {
	log := logger.FromContext(c)
	act := actor(c)

	orders, err := h.orders.ListByClient(c.Request().Context(), act.UserID)
	if err != nil {
		log.Error("Failed to list client orders", zap.Error(err))
		return httpError(c, err)
	}

	return c.JSON(http.StatusOK, orders)
}

// ListCompanyOrders returns orders addressed to the authenticated company,
// optionally filtered by status
func (h *Handler) ListCompanyOrders(c echo.Context) error {
	log := logger.FromContext(c)
	act := actor(c)
	if act.CompanyID == nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "company account required"})
	}

	orders, err := h.orders.ListByCompany(c.Request().Context(), *act.CompanyID, model.OrderStatus(c.QueryParam("status")))
	if err != nil {
		log.Error("Failed to list company orders", zap.Error(err))
		return httpError(c, err)
	}

	return c.JSON(http.StatusOK, orders)
}

// ApproveOrder approves a pending order and decrements product stock
func (h *Handler) ApproveOrder(c echo.Context) error {
	log := logger.FromContext(c)
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	order, err := h.orders.Approve(c.Request().Context(), id, actor(c))
	if err != nil {
		log.Error("Failed to approve order", zap.Uint("order_id", id), zap.Error(err))
		prometheus.RecordOrderOperation("approve", "error")
		return httpError(c, err)
	}

	prometheus.RecordOrderOperation("approve", "ok")
	if product, err := h.products.Get(c.Request().Context(), order.ProductID); err == nil {
		prometheus.UpdateProductStock(product.ID, product.Name, product.Quantity)
	}

	log.Info("Order approved",
		zap.Uint("order_id", order.ID),
		zap.Uint("product_id", order.ProductID),
		zap.Int("quantity", order.Quantity))
	return c.JSON(http.StatusOK, order)
}

// RejectOrder rejects a pending order; product stock is untouched
func (h *Handler) RejectOrder(c echo.Context) error {
	log := logger.FromContext(c)
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	order, err := h.orders.Reject(c.Request().Context(), id, actor(c))
	if err != nil {
		log.Error("Failed to reject order", zap.Uint("order_id", id), zap.Error(err))
		prometheus.RecordOrderOperation("reject", "error")
		return httpError(c, err)
	}

	prometheus.RecordOrderOperation("reject", "ok")
	log.Info("Order rejected", zap.Uint("order_id", order.ID))
	return c.JSON(http.StatusOK, order)
}

// DeliverOrder marks an approved order as delivered
func (h *Handler) DeliverOrder(c echo.Context) error {
	log := logger.FromContext(c)
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	order, err := h.orders.Deliver(c.Request().Context(), id, actor(c))
	if err != nil {
		log.Error("Failed to mark order delivered", zap.Uint("order_id", id), zap.Error(err))
		prometheus.RecordOrderOperation("deliver", "error")
		return httpError(c, err)
	}

	prometheus.RecordOrderOperation("deliver", "ok")
	log.Info("Order delivered", zap.Uint("order_id", order.ID))
	return c.JSON(http.StatusOK, order)
}
