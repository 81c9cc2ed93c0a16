package http

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/suburbmates/payment-service/internal/domain/repository"
	"github.com/suburbmates/payment-service/internal/middleware/auth"
	"go.uber.org/zap"
)

type OrderHandler struct {
	orders repository.OrderRepository
	logger *zap.Logger
}

func NewOrderHandler(orders repository.OrderRepository, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		logger: logger,
	}
}

// GetVendorOrders lists the authenticated vendor's orders, newest first
func (h *OrderHandler) GetVendorOrders(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err // RequireAuth already returns the JSON error response
	}

	vendorID, err := uuid.Parse(user.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid vendor id",
		})
	}

	limit, offset := paginationParams(c)

	orders, err := h.orders.ListByVendor(c.Request().Context(), vendorID, limit, offset)
	if err != nil {
		h.logger.Error("Failed to list vendor orders",
			zap.String("vendor_id", vendorID.String()),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to get orders",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrder retrieves a single order owned by the authenticated vendor
func (h *OrderHandler) GetOrder(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid order id",
		})
	}

	order, err := h.orders.GetByID(c.Request().Context(), orderID)
	if err != nil {
		h.logger.Error("Failed to get order",
			zap.String("order_id", orderID.String()),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to get order",
		})
	}

	if order == nil || order.VendorID.String() != user.UserID {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Order not found",
		})
	}

	return c.JSON(http.StatusOK, order)
}

func paginationParams(c echo.Context) (limit, offset int) {
	limit = 50
	if raw := c.QueryParam("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}
	if raw := c.QueryParam("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}
