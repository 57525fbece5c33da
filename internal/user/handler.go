// File: internal/user/handler.go
package user

import (
	"errors"

	"realestate_backend/internal/common"
	"realestate_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for user handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new user handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for user operations. All routes require
// authentication; admin routes additionally require the admin role.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc, adminMW gin.HandlerFunc) {
	userGroup := router.Group("/users")
	userGroup.Use(authMW)
	{
		userGroup.GET("/profile", h.getProfile)
		userGroup.PATCH("/profile", h.updateProfile)

		adminGroup := userGroup.Group("")
		adminGroup.Use(adminMW)
		{
			adminGroup.GET("", h.listUsers)
			adminGroup.PATCH("/make-admin/:uid", h.makeAdmin)
			adminGroup.PATCH("/make-agent/:uid", h.makeAgent)
			adminGroup.PATCH("/mark-fraud/:uid", h.markFraud)
			adminGroup.DELETE("/:uid", h.deleteUser)
		}
	}
}

func (h *Handler) getProfile(c *gin.Context) {
	uid := middleware.GetUserUIDFromContext(c)
	if uid == "" {
		h.logger.Error("UID not found in context for profile", zap.String("path", c.Request.URL.Path))
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identifier missing."))
		return
	}
	usr, err := h.service.GetProfile(c.Request.Context(), uid)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "User profile retrieved successfully.", ToUserResponse(usr))
}

func (h *Handler) updateProfile(c *gin.Context) {
	uid := middleware.GetUserUIDFromContext(c)
	if uid == "" {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identifier missing."))
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Update profile: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	if err := h.service.UpdateProfile(c.Request.Context(), uid, req); err != nil {
		common.RespondWithError(c, err)
		return
	}
	usr, err := h.service.GetProfile(c.Request.Context(), uid)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Profile updated successfully.", ToUserResponse(usr))
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToUserResponse(&users[i]))
	}
	common.RespondOK(c, "Users retrieved successfully.", responses)
}

func (h *Handler) makeAdmin(c *gin.Context) {
	uid := c.Param("uid")
	if err := h.service.MakeAdmin(c.Request.Context(), uid); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "User promoted to admin.", gin.H{"uid": uid})
}

func (h *Handler) makeAgent(c *gin.Context) {
	uid := c.Param("uid")
	if err := h.service.MakeAgent(c.Request.Context(), uid); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "User promoted to agent.", gin.H{"uid": uid})
}

func (h *Handler) markFraud(c *gin.Context) {
	uid := c.Param("uid")
	if err := h.service.MarkFraud(c.Request.Context(), uid); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Agent marked as fraud.", gin.H{"uid": uid})
}

func (h *Handler) deleteUser(c *gin.Context) {
	uid := c.Param("uid")
	requester := middleware.GetUserUIDFromContext(c)
	if requester == uid {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Admins cannot delete their own account."))
		return
	}
	if err := h.service.Delete(c.Request.Context(), uid); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "User deleted successfully.", gin.H{"uid": uid})
}
