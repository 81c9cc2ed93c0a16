package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/suburbmates/payment-service/internal/domain/repository"
	"github.com/suburbmates/payment-service/internal/middleware/auth"
	"go.uber.org/zap"
)

type DisputeHandler struct {
	disputes repository.DisputeRepository
	logger   *zap.Logger
}

func NewDisputeHandler(disputes repository.DisputeRepository, logger *zap.Logger) *DisputeHandler {
	return &DisputeHandler{
		disputes: disputes,
		logger:   logger,
	}
}

// GetVendorDisputes lists the authenticated vendor's disputes, newest
// first. Each dispute carries the AI enrichment fields when the insights
// service produced them.
func (h *DisputeHandler) GetVendorDisputes(c echo.Context) error {
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

	disputes, err := h.disputes.ListByVendor(c.Request().Context(), vendorID, limit, offset)
	if err != nil {
		h.logger.Error("Failed to list vendor disputes",
			zap.String("vendor_id", vendorID.String()),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to get disputes",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"disputes": disputes,
		"count":    len(disputes),
	})
}

// GetDispute retrieves a single dispute owned by the authenticated vendor
func (h *DisputeHandler) GetDispute(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	disputeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid dispute id",
		})
	}

	dispute, err := h.disputes.GetByID(c.Request().Context(), disputeID)
	if err != nil {
		h.logger.Error("Failed to get dispute",
			zap.String("dispute_id", disputeID.String()),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to get dispute",
		})
	}

	if dispute == nil || dispute.VendorID.String() != user.UserID {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Dispute not found",
		})
	}

	return c.JSON(http.StatusOK, dispute)
}
