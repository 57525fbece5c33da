// File: internal/wishlist/handler.go
package wishlist

import (
	"errors"

	"realestate_backend/internal/common"
	"realestate_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for wishlist handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new wishlist handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for wishlist operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	wishlistGroup := router.Group("/wishlist")
	wishlistGroup.Use(authMW)
	{
		wishlistGroup.POST("", h.add)
		wishlistGroup.GET("", h.list)
		wishlistGroup.DELETE("/:id", h.remove)
	}
}

func (h *Handler) add(c *gin.Context) {
	uid := middleware.GetUserUIDFromContext(c)

	var req AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Add to wishlist: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	item, err := h.service.Add(c.Request.Context(), uid, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Property added to wishlist.", item)
}

func (h *Handler) list(c *gin.Context) {
	uid := middleware.GetUserUIDFromContext(c)
	items, err := h.service.ListForUser(c.Request.Context(), uid)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Wishlist retrieved successfully.", items)
}

func (h *Handler) remove(c *gin.Context) {
	uid := middleware.GetUserUIDFromContext(c)
	role := middleware.GetUserRoleFromContext(c)
	if err := h.service.Remove(c.Request.Context(), uid, role, c.Param("id")); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Property removed from wishlist.", nil)
}
