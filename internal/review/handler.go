// File: internal/review/handler.go
package review

import (
	"errors"
	"strconv"

	"realestate_backend/internal/common"
	"realestate_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for review handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new review handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for review operations. Reading reviews is
// public; writing requires the user role, moderation the admin role.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW, userMW, adminMW gin.HandlerFunc) {
	reviewGroup := router.Group("/reviews")
	{
		reviewGroup.GET("/property/:propertyId", h.listByProperty)
		reviewGroup.GET("/latest", h.listLatest)

		authGroup := reviewGroup.Group("")
		authGroup.Use(authMW)
		{
			authGroup.GET("/my-reviews", userMW, h.listMine)
			authGroup.GET("/admin/all", adminMW, h.listAll)
			authGroup.POST("", userMW, h.add)
			authGroup.DELETE("/:id", h.delete)
			authGroup.GET("", adminMW, h.listAll)
		}
	}
}

func (h *Handler) add(c *gin.Context) {
	reviewer := middleware.GetIdentityFromContext(c)
	if reviewer == nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identity missing."))
		return
	}

	var req AddReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Add review: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	rev, err := h.service.Add(c.Request.Context(), reviewer, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Review added successfully.", rev)
}

func (h *Handler) listByProperty(c *gin.Context) {
	reviews, err := h.service.ListByProperty(c.Request.Context(), c.Param("propertyId"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Reviews retrieved successfully.", reviews)
}

func (h *Handler) listLatest(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "3"), 10, 64)
	reviews, err := h.service.ListLatest(c.Request.Context(), limit)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Latest reviews retrieved successfully.", reviews)
}

func (h *Handler) listMine(c *gin.Context) {
	uid := middleware.GetUserUIDFromContext(c)
	reviews, err := h.service.ListMine(c.Request.Context(), uid)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Reviews retrieved successfully.", reviews)
}

func (h *Handler) listAll(c *gin.Context) {
	reviews, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Reviews retrieved successfully.", reviews)
}

func (h *Handler) delete(c *gin.Context) {
	uid := middleware.GetUserUIDFromContext(c)
	role := middleware.GetUserRoleFromContext(c)
	if err := h.service.Delete(c.Request.Context(), uid, role, c.Param("id")); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Review deleted successfully.", nil)
}
