// File: internal/offer/handler.go
package offer

import (
	"errors"

	"realestate_backend/internal/common"
	"realestate_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for offer handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new offer handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for offer operations. All routes require
// authentication; buyer and agent routes are split by role.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW, userMW, agentMW gin.HandlerFunc) {
	offerGroup := router.Group("/offers")
	offerGroup.Use(authMW)
	{
		offerGroup.POST("", userMW, h.make)
		offerGroup.GET("/my-offers", userMW, h.listMine)
		offerGroup.GET("/my-bought-properties", userMW, h.listBought)
		offerGroup.DELETE("/:id", userMW, h.cancel)
		offerGroup.PATCH("/user/pay/:id", userMW, h.markBought)

		offerGroup.GET("/agent/requested-properties", agentMW, h.listRequested)
		offerGroup.GET("/agent/sold-properties", agentMW, h.listSold)
		offerGroup.GET("/agent/total-sold-amount", agentMW, h.totalSoldAmount)
		offerGroup.PATCH("/agent/accept/:id", agentMW, h.accept)
		offerGroup.PATCH("/agent/reject/:id", agentMW, h.reject)
	}
}

func (h *Handler) make(c *gin.Context) {
	buyer := middleware.GetIdentityFromContext(c)
	if buyer == nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identity missing."))
		return
	}

	var req MakeOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Make offer: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	off, err := h.service.Make(c.Request.Context(), buyer, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Offer made successfully.", off)
}

func (h *Handler) listMine(c *gin.Context) {
	uid := middleware.GetUserUIDFromContext(c)
	offers, err := h.service.ListMine(c.Request.Context(), uid)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Offers retrieved successfully.", offers)
}

func (h *Handler) listBought(c *gin.Context) {
	buyer := middleware.GetIdentityFromContext(c)
	if buyer == nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identity missing."))
		return
	}
	summary, err := h.service.ListBought(c.Request.Context(), buyer)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Bought properties retrieved successfully.", summary)
}

func (h *Handler) cancel(c *gin.Context) {
	uid := middleware.GetUserUIDFromContext(c)
	if err := h.service.Cancel(c.Request.Context(), uid, c.Param("id")); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Offer cancelled successfully.", nil)
}

func (h *Handler) markBought(c *gin.Context) {
	uid := middleware.GetUserUIDFromContext(c)

	var req MarkBoughtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	off, err := h.service.MarkBought(c.Request.Context(), uid, c.Param("id"), req.TransactionID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Payment completed, offer marked as bought.", off)
}

func (h *Handler) listRequested(c *gin.Context) {
	agent := middleware.GetIdentityFromContext(c)
	if agent == nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identity missing."))
		return
	}
	offers, err := h.service.ListRequestedForAgent(c.Request.Context(), agent)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Requested offers retrieved successfully.", offers)
}

func (h *Handler) listSold(c *gin.Context) {
	agent := middleware.GetIdentityFromContext(c)
	if agent == nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identity missing."))
		return
	}
	offers, err := h.service.ListSoldForAgent(c.Request.Context(), agent)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Sold properties retrieved successfully.", offers)
}

func (h *Handler) totalSoldAmount(c *gin.Context) {
	agent := middleware.GetIdentityFromContext(c)
	if agent == nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identity missing."))
		return
	}
	total, err := h.service.TotalSoldAmountForAgent(c.Request.Context(), agent)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Total sold amount retrieved successfully.", gin.H{"totalSoldAmount": total})
}

func (h *Handler) accept(c *gin.Context) {
	h.respond(c, "accept")
}

func (h *Handler) reject(c *gin.Context) {
	h.respond(c, "reject")
}

func (h *Handler) respond(c *gin.Context, action string) {
	agent := middleware.GetIdentityFromContext(c)
	if agent == nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identity missing."))
		return
	}
	off, err := h.service.Respond(c.Request.Context(), agent, c.Param("id"), action)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	message := "Offer accepted."
	if action == "reject" {
		message = "Offer rejected."
	}
	common.RespondOK(c, message, off)
}
