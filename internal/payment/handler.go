// File: internal/payment/handler.go
package payment

import (
	"errors"

	"realestate_backend/internal/common"
	"realestate_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for payment handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new payment handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for payment operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW, userMW gin.HandlerFunc) {
	paymentGroup := router.Group("/payment")
	paymentGroup.Use(authMW, userMW)
	{
		paymentGroup.POST("/create-payment-intent", h.createIntent)
		paymentGroup.POST("/confirm-payment", h.confirm)
	}
}

func (h *Handler) createIntent(c *gin.Context) {
	buyer := middleware.GetIdentityFromContext(c)
	if buyer == nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identity missing."))
		return
	}

	var req CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Create payment intent: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	resp, err := h.service.CreateIntent(c.Request.Context(), buyer, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Payment intent created successfully.", resp)
}

func (h *Handler) confirm(c *gin.Context) {
	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Confirm payment: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	off, err := h.service.Confirm(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Payment confirmed and offer updated.", off)
}
