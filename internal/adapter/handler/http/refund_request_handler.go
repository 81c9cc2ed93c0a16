package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/suburbmates/payment-service/internal/domain/repository"
	"github.com/suburbmates/payment-service/internal/middleware/auth"
	"github.com/suburbmates/payment-service/internal/usecase"
	apperrors "github.com/suburbmates/payment-service/pkg/errors"
	"go.uber.org/zap"
)

type RefundRequestHandler struct {
	service *usecase.RefundService
	refunds repository.RefundRequestRepository
	logger  *zap.Logger
}

func NewRefundRequestHandler(service *usecase.RefundService, refunds repository.RefundRequestRepository, logger *zap.Logger) *RefundRequestHandler {
	return &RefundRequestHandler{
		service: service,
		refunds: refunds,
		logger:  logger,
	}
}

type createRefundRequestBody struct {
	Reason string `json:"reason" validate:"required,min=10,max=2000"`
}

type decideRefundRequestBody struct {
	Action string `json:"action" validate:"required,oneof=resolve reject"`
	Note   string `json:"note" validate:"max=2000"`
}

// CreateRefundRequest lets a buyer raise a refund request against one of
// their orders.
func (h *RefundRequestHandler) CreateRefundRequest(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err // RequireAuth already returns the JSON error response
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid order id",
		})
	}

	var body createRefundRequestBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request body",
		})
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": err.Error(),
		})
	}

	request, err := h.service.CreateRequest(c.Request().Context(), orderID, user.UserID, body.Reason)
	if err != nil {
		return h.respondError(c, err, "Failed to create refund request")
	}

	return c.JSON(http.StatusCreated, request)
}

// GetVendorRefundRequests lists the authenticated vendor's refund requests
func (h *RefundRequestHandler) GetVendorRefundRequests(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	vendorID, err := uuid.Parse(user.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid vendor id",
		})
	}

	limit, offset := paginationParams(c)

	requests, err := h.refunds.ListByVendor(c.Request().Context(), vendorID, limit, offset)
	if err != nil {
		h.logger.Error("Failed to list refund requests",
			zap.String("vendor_id", vendorID.String()),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to get refund requests",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"refund_requests": requests,
		"count":           len(requests),
	})
}

// DecideRefundRequest applies the authenticated vendor's decision to one of
// their open refund requests.
func (h *RefundRequestHandler) DecideRefundRequest(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	vendorID, err := uuid.Parse(user.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid vendor id",
		})
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid refund request id",
		})
	}

	var body decideRefundRequestBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request body",
		})
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": err.Error(),
		})
	}

	request, err := h.service.Decide(c.Request().Context(), requestID, vendorID,
		body.Action == "resolve", body.Note, user.UserID)
	if err != nil {
		return h.respondError(c, err, "Failed to decide refund request")
	}

	return c.JSON(http.StatusOK, request)
}

func (h *RefundRequestHandler) respondError(c echo.Context, err error, fallback string) error {
	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		return c.JSON(apperrors.GetCodeMapping(appErr.Code()), echo.Map{
			"error": appErr.Error(),
		})
	}

	h.logger.Error(fallback, zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{
		"error": fallback,
	})
}
